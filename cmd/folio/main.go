package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/segmentio/encoding/json"
	"github.com/shishobooks/folio/pkg/config"
	"github.com/shishobooks/folio/pkg/library"
	"github.com/shishobooks/folio/pkg/metadata"
	"github.com/shishobooks/folio/pkg/models"
	"github.com/shishobooks/folio/pkg/version"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.New()

	app := &cli.App{
		Name:        "folio",
		Usage:       "CLI to manage the PDF library",
		Description: "CLI to manage the PDF library without running the API server",
		Version:     version.Version,
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list every book",
				Action: withLibrary(func(c *cli.Context, svc *library.Service) error {
					for _, b := range svc.ListBooks(c.Context) {
						fmt.Printf("%s  %5.1f%%  %4d pages  %s\n", b.ID, b.Progress(), b.PageCount, b.Name)
					}
					return nil
				}),
			},
			{
				Name:      "show",
				Usage:     "print a book record as JSON",
				ArgsUsage: "<id>",
				Action: withLibrary(func(c *cli.Context, svc *library.Service) error {
					book, err := svc.GetBook(c.Context, c.Args().First())
					if err != nil {
						return err
					}
					return printJSON(book)
				}),
			},
			{
				Name:      "import",
				Usage:     "import PDF files",
				ArgsUsage: "<path>...",
				Action: withLibrary(func(c *cli.Context, svc *library.Service) error {
					if c.NArg() == 0 {
						return errors.New("at least one path is required")
					}
					added, err := svc.AddBooks(c.Context, c.Args().Slice())
					printAdded(added)
					return err
				}),
			},
			{
				Name:      "import-dir",
				Usage:     "import every supported file under a directory",
				ArgsUsage: "<dir>",
				Action: withLibrary(func(c *cli.Context, svc *library.Service) error {
					added, err := svc.AddDirectory(c.Context, c.Args().First())
					printAdded(added)
					return err
				}),
			},
			{
				Name:      "delete",
				Usage:     "delete books and their managed files",
				ArgsUsage: "<id>...",
				Action: withLibrary(func(c *cli.Context, svc *library.Service) error {
					for _, id := range c.Args().Slice() {
						if err := svc.DeleteBook(c.Context, id); err != nil {
							return err
						}
						fmt.Printf("Deleted %s\n", id)
					}
					return nil
				}),
			},
			{
				Name:      "theme",
				Usage:     "print the theme, or set it when an argument is given",
				ArgsUsage: "[theme]",
				Action: withLibrary(func(c *cli.Context, svc *library.Service) error {
					if c.NArg() == 0 {
						fmt.Println(svc.GetTheme(c.Context))
						return nil
					}
					return svc.SetTheme(c.Context, strings.TrimSpace(c.Args().First()))
				}),
			},
			{
				Name:  "stats",
				Usage: "print reading statistics as JSON",
				Action: withLibrary(func(c *cli.Context, svc *library.Service) error {
					return printJSON(svc.GetStats(c.Context))
				}),
			},
			{
				Name:  "prune",
				Usage: "remove managed files no book references",
				Action: withLibrary(func(c *cli.Context, svc *library.Service) error {
					result, err := svc.PruneOrphans(c.Context)
					if err != nil {
						return err
					}
					for _, path := range result.Removed {
						fmt.Printf("Removed %s\n", path)
					}
					fmt.Printf("Pruned %d files\n", len(result.Removed))
					return nil
				}),
			},
			{
				Name:  "config",
				Usage: "print the resolved configuration",
				Action: func(c *cli.Context) error {
					cfg, err := config.New()
					if err != nil {
						return err
					}
					return printJSON(cfg)
				},
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Err(err).Fatal("app run error")
	}
}

// withLibrary opens the library for the duration of one command.
func withLibrary(fn func(c *cli.Context, svc *library.Service) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.New()
		if err != nil {
			return err
		}

		registry, renderer, err := metadata.NewDefaultRegistry(cfg)
		if err != nil {
			return err
		}
		defer renderer.Close()

		svc, err := library.OpenFromConfig(c.Context, cfg, registry)
		if err != nil {
			return err
		}
		defer svc.Close()

		return fn(c, svc)
	}
}

func printAdded(added []*models.Book) {
	for _, b := range added {
		fmt.Printf("Imported %s (%d pages) as %s\n", b.Name, b.PageCount, b.ID)
	}
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}
	fmt.Println(string(data))
	return nil
}
