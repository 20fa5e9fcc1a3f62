package config

// Overrides carries command-line values that take precedence over the file.
// Zero values leave the loaded setting alone.
type Overrides struct {
	Inputs    []string
	OutputDir string
	HTMLFile  string
	Jobs      int
	NoRetina  bool
	NoHTML    bool
}

// ApplyOverrides merges o into the config and re-runs normalization and
// validation so overridden paths are expanded like file values.
func (c *Config) ApplyOverrides(o Overrides) error {
	if len(o.Inputs) > 0 {
		c.Paths.Inputs = append([]string(nil), o.Inputs...)
	}
	if o.OutputDir != "" {
		c.Paths.OutputDir = o.OutputDir
	}
	if o.HTMLFile != "" {
		c.Paths.HTMLFile = o.HTMLFile
	}
	if o.Jobs > 0 {
		c.Workflow.Jobs = o.Jobs
	}
	if o.NoRetina {
		c.Variants.Retina = false
	}
	if o.NoHTML {
		c.HTML.Patch = false
	}
	if err := c.normalize(); err != nil {
		return err
	}
	return c.Validate()
}
