package config

import (
	"os"
	"path/filepath"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"go.viam.com/lidarcloud/utils"
)

// SetupDirectories creates the per-channel data directories the PCD sink
// writes into at the end of the passed path.
func SetupDirectories(dataDirectory, targetFrame string, logger golog.Logger) error {
	for _, directoryName := range [3]string{"", "points", utils.TopicForFrame("points", targetFrame)} {
		directoryPath := filepath.Join(dataDirectory, directoryName)
		if _, err := os.Stat(directoryPath); os.IsNotExist(err) {
			logger.Warnf("%v directory does not exist", directoryPath)
			if err := os.Mkdir(directoryPath, os.ModePerm); err != nil {
				return errors.Errorf("issue creating directory at %v: %v", directoryPath, err)
			}
		}
	}
	return nil
}
