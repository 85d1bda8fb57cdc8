package cli

// StringFlag is a flag parsed as a string. Paths are string flags read with
// Flags.Path.
//
// - implements cli.Flag
type StringFlag struct {
	Name     string
	Usage    string
	Required bool
	Value    string
}

// Flag implements cli.Flag.
func (StringFlag) Flag() {}

// IntFlag is a flag parsed as an integer.
//
// - implements cli.Flag
type IntFlag struct {
	Name     string
	Usage    string
	Required bool
	Value    int
}

// Flag implements cli.Flag.
func (IntFlag) Flag() {}

// BoolFlag is a flag parsed as a boolean. It is set by its presence, without
// value.
//
// - implements cli.Flag
type BoolFlag struct {
	Name     string
	Usage    string
	Required bool
	Value    bool
}

// Flag implements cli.Flag.
func (BoolFlag) Flag() {}
