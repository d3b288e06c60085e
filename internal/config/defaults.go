package config

const (
	defaultDataDir          = "~/mri/raw"
	defaultOutputDir        = "~/mri/bids"
	defaultLogDir           = "~/.local/share/parbids/logs"
	defaultConverterBinary  = "parrec2nii"
	defaultConverterTimeout = 900
	defaultSessionLabel     = "01"
	defaultDatasetName      = "Converted PAR/REC dataset"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Converter: Converter{
			Binary:         defaultConverterBinary,
			TimeoutSeconds: defaultConverterTimeout,
		},
		Classification: Classification{
			DefaultSession: defaultSessionLabel,
			Tasks: map[string]string{
				"anticipation": "anticipation",
			},
		},
		Output: Output{
			OverwriteExisting: true,
			DatasetName:       defaultDatasetName,
		},
		Journal: Journal{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
