package config

// KeyMappings defines the configurable board keys
type KeyMappings struct {
	// Navigation
	PrevColumn string `yaml:"prev_column"`
	NextColumn string `yaml:"next_column"`
	PrevTask   string `yaml:"prev_task"`
	NextTask   string `yaml:"next_task"`

	// Dragging
	Grab   string `yaml:"grab"`
	Drop   string `yaml:"drop"`
	Cancel string `yaml:"cancel"`

	// Tasks
	AddTask    string `yaml:"add_task"`
	DeleteTask string `yaml:"delete_task"`

	// Other
	Quit string `yaml:"quit"`
}

// DefaultKeyMappings returns the default key mappings
func DefaultKeyMappings() KeyMappings {
	return KeyMappings{
		PrevColumn: "h",
		NextColumn: "l",
		PrevTask:   "k",
		NextTask:   "j",

		Grab:   " ",
		Drop:   "enter",
		Cancel: "esc",

		AddTask:    "n",
		DeleteTask: "d",

		Quit: "q",
	}
}

// applyDefaults fills any empty binding
func (k *KeyMappings) applyDefaults() {
	d := DefaultKeyMappings()
	setDefault(&k.PrevColumn, d.PrevColumn)
	setDefault(&k.NextColumn, d.NextColumn)
	setDefault(&k.PrevTask, d.PrevTask)
	setDefault(&k.NextTask, d.NextTask)
	setDefault(&k.Grab, d.Grab)
	setDefault(&k.Drop, d.Drop)
	setDefault(&k.Cancel, d.Cancel)
	setDefault(&k.AddTask, d.AddTask)
	setDefault(&k.DeleteTask, d.DeleteTask)
	setDefault(&k.Quit, d.Quit)
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
