package workflow

import (
	"os"
	"path/filepath"

	"parbids/internal/config"
	"parbids/internal/services"
	"parbids/internal/sidecar"
)

const datasetDescriptionName = "dataset_description.json"

// ensureDatasetDescription writes the top-level dataset descriptor if the
// output tree does not have one yet. An existing descriptor is left alone so
// manual edits survive reruns.
func ensureDatasetDescription(cfg *config.Config) error {
	path := filepath.Join(cfg.OutputDir, datasetDescriptionName)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return services.Wrap(services.ErrConfiguration, "dataset", "", "stat dataset description", err)
	}

	record := sidecar.NewRecord()
	record.Set("Name", cfg.Output.DatasetName)
	record.Set("BIDSVersion", "1.8.0")
	record.Set("DatasetType", "raw")
	if len(cfg.Output.Authors) > 0 {
		record.Set("Authors", cfg.Output.Authors)
	}
	record.Set("GeneratedBy", []map[string]string{{
		"Name":    sidecar.ToolName,
		"Version": sidecar.ToolVersion,
	}})

	if err := record.WriteFile(path); err != nil {
		return services.Wrap(services.ErrConfiguration, "dataset", "", "write dataset description", err)
	}
	return nil
}
