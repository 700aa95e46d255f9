// Package dataprocess manages writing finished clouds out as PCD data files.
package dataprocess

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	pc "go.viam.com/rdk/pointcloud"

	"go.viam.com/lidarcloud/cloud"
)

// The timestamp format used in data file names.
const timeFormat = time.RFC3339Nano

// CreateTimestampFilename creates a file name in the data directory with a
// timestamp suffix.
func CreateTimestampFilename(dataDirectory, name, fileType string, timestamp time.Time) string {
	return filepath.Join(dataDirectory, name+"_data_"+timestamp.UTC().Format(timeFormat)+fileType)
}

// WritePCDToFile encodes the cloud and then saves it to the passed filename.
func WritePCDToFile(ctx context.Context, c *cloud.Cloud, filename string) error {
	pointcloud, err := cloud.ToPointCloud(c)
	if err != nil {
		return errors.Wrap(err, "converting cloud for PCD encoding")
	}

	//nolint:gosec
	f, err := os.Create(filename)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)

	if err = pc.ToPCD(pointcloud, w, 1); err != nil {
		return err
	}
	if err = w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

// PCDPublisher is a pipeline sink that writes every published cloud to a data
// directory as a timestamped PCD file.
type PCDPublisher struct {
	dataDirectory string
	name          string
}

// NewPCDPublisher creates a publisher writing into the given directory. The
// name prefixes every data file, conventionally the topic ("points" or the
// target-frame variant).
func NewPCDPublisher(dataDirectory, name string) *PCDPublisher {
	return &PCDPublisher{dataDirectory: dataDirectory, name: name}
}

// Publish writes the cloud to a new PCD file named after its timestamp.
func (p *PCDPublisher) Publish(ctx context.Context, c *cloud.Cloud) error {
	filename := CreateTimestampFilename(p.dataDirectory, p.name, ".pcd", c.Timestamp)
	return WritePCDToFile(ctx, c, filename)
}
