package settings

type ThemePayload struct {
	Theme string `json:"theme" mod:"trim" validate:"required,max=50"`
}
