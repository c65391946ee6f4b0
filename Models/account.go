package Models

// Account is the child account logged in on this device.
type Account struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Male     bool   `json:"kidMale"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginCode pairs the string encoded in a login QR code with its account.
type LoginCode struct {
	Code  string  `json:"phoneLoginString"`
	Child Account `json:"child"`
}

// Settings is the per-account presentation configuration.
type Settings struct {
	ColorForBackground  string  `json:"colorForBackground"`
	FontSize            float64 `json:"fontSize"`
	Font                string  `json:"font"`
	ColorOfNormalTask   string  `json:"colorOfNormalTask"`
	ColorOfPriorityTask string  `json:"colorOfPriorityTask"`
	ColorForFont        string  `json:"colorForFont"`
	ColorForProgress    string  `json:"colorForProgress"`
}
