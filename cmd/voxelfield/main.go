// Command voxelfield rebuilds triangle meshes through a voxel distance
// field: it thickens surfaces, fills closed volumes and combines meshes
// with boolean operations.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.WithError(err).Error("voxelfield failed")
		os.Exit(1)
	}
}
