package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sub-digital/H.U.R.B.A.N.-Selector/pkg/pipeline"
)

// Configuration keys. Each is also a persistent flag and can be set from
// voxelfield.yaml or a VOXELFIELD_ environment variable.
const (
	keyConfig        = "config"
	keyVoxelSize     = "voxel-size"
	keyGrowth        = "growth"
	keyFill          = "fill"
	keyMarchingCubes = "marching-cubes"
	keyPreventUnsafe = "prevent-unsafe"
	keyMaxVoxels     = "max-voxels"
	keyWeldTolerance = "weld-tolerance"
	keyTimeout       = "timeout"
	keyVerbose       = "verbose"
)

// config is everything a subcommand needs after flags, file and
// environment have been merged.
type config struct {
	Params        pipeline.Params
	WeldTolerance float64
	Timeout       time.Duration
}

func addPersistentFlags(cmd *cobra.Command) {
	d := pipeline.DefaultParams()
	f := cmd.PersistentFlags()
	f.String(keyConfig, "", "config file (default ./voxelfield.yaml)")
	f.Float64Slice(keyVoxelSize, []float64{d.VoxelSize.X, d.VoxelSize.Y, d.VoxelSize.Z}, "voxel size as x,y,z or a single uniform value")
	f.Int(keyGrowth, d.Growth, "voxels by which surfaces are thickened")
	f.Bool(keyFill, d.FillClosedVolumes, "fill closed volumes instead of keeping a shell")
	f.Bool(keyMarchingCubes, d.MarchingCubes, "smooth output with marching cubes")
	f.Bool(keyPreventUnsafe, d.PreventUnsafe, "refuse inputs needing more than max-voxels")
	f.Int(keyMaxVoxels, d.MaxVoxels, "voxel budget when prevent-unsafe is set")
	f.Float64(keyWeldTolerance, 1e-4, "vertex weld tolerance for STL input")
	f.Duration(keyTimeout, pipeline.DefaultTimeout, "time limit for one step")
	f.BoolP(keyVerbose, "v", false, "debug logging")
}

// loadConfig merges the config file and environment into v, which must
// already have the command's flags bound.
func loadConfig(v *viper.Viper) error {
	v.SetEnvPrefix("VOXELFIELD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString(keyConfig); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("voxelfield")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	} else {
		logrus.WithField("file", v.ConfigFileUsed()).Debug("config loaded")
	}

	if v.GetBool(keyVerbose) {
		logrus.SetLevel(logrus.DebugLevel)
	}
	return nil
}

// decodeConfig reads the merged settings out of v. A voxel size given on
// the command line is taken from flags directly, since pflag prints float
// slices with six decimals when viper reads them back.
func decodeConfig(v *viper.Viper, flags *pflag.FlagSet) (config, error) {
	var raw any = v.Get(keyVoxelSize)
	if flags != nil && flags.Changed(keyVoxelSize) {
		vals, err := flags.GetFloat64Slice(keyVoxelSize)
		if err != nil {
			return config{}, err
		}
		raw = vals
	}
	vals, err := toFloats(raw)
	if err != nil {
		return config{}, fmt.Errorf("%s: %w", keyVoxelSize, err)
	}
	size, err := vec3(vals)
	if err != nil {
		return config{}, fmt.Errorf("%s: %w", keyVoxelSize, err)
	}
	c := config{
		Params: pipeline.Params{
			VoxelSize:         size,
			Growth:            v.GetInt(keyGrowth),
			FillClosedVolumes: v.GetBool(keyFill),
			MarchingCubes:     v.GetBool(keyMarchingCubes),
			PreventUnsafe:     v.GetBool(keyPreventUnsafe),
			MaxVoxels:         v.GetInt(keyMaxVoxels),
		},
		WeldTolerance: v.GetFloat64(keyWeldTolerance),
		Timeout:       v.GetDuration(keyTimeout),
	}
	if err := c.Params.Validate(); err != nil {
		return config{}, err
	}
	return c, nil
}

// toFloats accepts the shapes a float list arrives in: a slice from flags,
// a list from a config file, or "x,y,z" (optionally bracketed) from the
// environment or a flag default.
func toFloats(raw any) ([]float64, error) {
	switch v := raw.(type) {
	case []float64:
		return v, nil
	case []any:
		out := make([]float64, len(v))
		for i, e := range v {
			f, err := cast.ToFloat64E(e)
			if err != nil {
				return nil, err
			}
			out[i] = f
		}
		return out, nil
	case string:
		parts := strings.Split(strings.Trim(strings.TrimSpace(v), "[]"), ",")
		out := make([]float64, len(parts))
		for i, p := range parts {
			f, err := cast.ToFloat64E(strings.TrimSpace(p))
			if err != nil {
				return nil, err
			}
			out[i] = f
		}
		return out, nil
	default:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, err
		}
		return []float64{f}, nil
	}
}

// vec3 turns one uniform value or three components into a vector.
func vec3(vals []float64) (v3.Vec, error) {
	switch len(vals) {
	case 1:
		return v3.Vec{X: vals[0], Y: vals[0], Z: vals[0]}, nil
	case 3:
		return v3.Vec{X: vals[0], Y: vals[1], Z: vals[2]}, nil
	default:
		return v3.Vec{}, fmt.Errorf("want one or three values, got %d", len(vals))
	}
}
