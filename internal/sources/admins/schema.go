package admins

// File represents the top-level structure of admins.yaml
type File struct {
	Admins []Entry `yaml:"admins"`
}

// Entry is one administrator as written in the file
type Entry struct {
	Email        string `yaml:"email"`
	Name         string `yaml:"name,omitempty"`
	PasswordHash string `yaml:"passwordHash"`
	Disabled     bool   `yaml:"disabled,omitempty"`
}
