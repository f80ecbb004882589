package config

// Theme defines the terminal colors used by the board render, the TUI and
// CLI notifications
type Theme struct {
	Accent         string `yaml:"accent"`
	ColumnBorder   string `yaml:"column_border"`
	TaskBorder     string `yaml:"task_border"`
	SelectedBorder string `yaml:"selected_border"`
	Title          string `yaml:"title"`
	Subtle         string `yaml:"subtle"`
	Normal         string `yaml:"normal"`

	// Notification colors (foreground/background pairs)
	SuccessFg string `yaml:"success_fg"`
	SuccessBg string `yaml:"success_bg"`
	InfoFg    string `yaml:"info_fg"`
	InfoBg    string `yaml:"info_bg"`
	WarningFg string `yaml:"warning_fg"`
	WarningBg string `yaml:"warning_bg"`
	ErrorFg   string `yaml:"error_fg"`
	ErrorBg   string `yaml:"error_bg"`
}

// DefaultTheme returns the default purple theme
func DefaultTheme() Theme {
	return Theme{
		Accent:         "#874BFD",
		ColumnBorder:   "#5F87D7",
		TaskBorder:     "#585858",
		SelectedBorder: "#D75FD7",
		Title:          "#D75FD7",
		Subtle:         "#585858",
		Normal:         "#D0D0D0",

		SuccessFg: "#5FD75F",
		SuccessBg: "#005F00",
		InfoFg:    "#00AFFF",
		InfoBg:    "#00005F",
		WarningFg: "#FFD700",
		WarningBg: "#875F00",
		ErrorFg:   "#FF0000",
		ErrorBg:   "#5F0000",
	}
}

// applyDefaults fills unset colors from the default theme
func (t *Theme) applyDefaults() {
	d := DefaultTheme()
	setDefault(&t.Accent, d.Accent)
	setDefault(&t.ColumnBorder, d.ColumnBorder)
	setDefault(&t.TaskBorder, d.TaskBorder)
	setDefault(&t.SelectedBorder, d.SelectedBorder)
	setDefault(&t.Title, d.Title)
	setDefault(&t.Subtle, d.Subtle)
	setDefault(&t.Normal, d.Normal)
	setDefault(&t.SuccessFg, d.SuccessFg)
	setDefault(&t.SuccessBg, d.SuccessBg)
	setDefault(&t.InfoFg, d.InfoFg)
	setDefault(&t.InfoBg, d.InfoBg)
	setDefault(&t.WarningFg, d.WarningFg)
	setDefault(&t.WarningBg, d.WarningBg)
	setDefault(&t.ErrorFg, d.ErrorFg)
	setDefault(&t.ErrorBg, d.ErrorBg)
}
