// Package config implements attribute evaluation for the lidar cloud pipeline
package config

import (
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
)

// NewError returns an error specific to a failure in the pipeline config.
func NewError(configError string) error {
	return errors.Errorf("lidar cloud pipeline configuration error: %s", configError)
}

// WrapError wraps an error to show it came from the pipeline config.
func WrapError(configError error) error {
	return NewError(configError.Error())
}

// CropBoxConfig describes the optional axis-aligned crop stage. Units are
// meters in the sensor frame. When Exclude is set, points inside the box are
// removed; otherwise only points inside are kept.
type CropBoxConfig struct {
	MinX    float64 `json:"min_x"`
	MinY    float64 `json:"min_y"`
	MinZ    float64 `json:"min_z"`
	MaxX    float64 `json:"max_x"`
	MaxY    float64 `json:"max_y"`
	MaxZ    float64 `json:"max_z"`
	Exclude bool    `json:"exclude"`
}

// AttrConfig describes how to configure the pipeline. A nil CropBox disables
// the crop stage. QueueSize is the delivery queue depth a deployment passes
// to pipeline.NewQueuedPublisher when wrapping its publishers.
type AttrConfig struct {
	SensorFrame   string            `json:"sensor_frame"`
	TargetFrame   string            `json:"target_frame"`
	Height        int               `json:"height"`
	Width         int               `json:"width"`
	DataDirectory string            `json:"data_dir"`
	DataRateMs    int               `json:"data_rate_msec"`
	QueueSize     int               `json:"queue_size"`
	CropBox       *CropBoxConfig    `json:"crop_box"`
	ConfigParams  map[string]string `json:"config_params"`
}

// Validate ensures all required attributes are set and consistent.
func (config *AttrConfig) Validate(path string) error {
	if config.SensorFrame == "" {
		return goutils.NewConfigValidationFieldRequiredError(path, "sensor_frame")
	}

	if config.TargetFrame == "" {
		return goutils.NewConfigValidationFieldRequiredError(path, "target_frame")
	}

	if config.Height <= 0 {
		return NewError("height must be a positive number of beams")
	}

	if config.Width <= 0 {
		return NewError("width must be a positive number of azimuth slots")
	}

	if config.DataRateMs < 0 {
		return errors.New("cannot specify data_rate_msec less than zero")
	}

	if config.QueueSize < 0 {
		return errors.New("cannot specify queue_size less than zero")
	}

	if box := config.CropBox; box != nil {
		if box.MinX > box.MaxX || box.MinY > box.MaxY || box.MinZ > box.MaxZ {
			return NewError("crop_box min bound exceeds max bound")
		}
	}

	return nil
}

// SetParameters fills in default values for the optional attributes.
func (config *AttrConfig) SetParameters(defaultDataRateMs, defaultQueueSize int, logger golog.Logger) {
	if config.DataRateMs == 0 {
		config.DataRateMs = defaultDataRateMs
		logger.Debugf("no data_rate_msec given, setting to default value of %d", defaultDataRateMs)
	}

	if config.QueueSize == 0 {
		config.QueueSize = defaultQueueSize
		logger.Debugf("no queue_size given, setting to default value of %d", defaultQueueSize)
	}

	if config.CropBox == nil {
		logger.Debug("no crop_box given, crop stage disabled")
	}
}
