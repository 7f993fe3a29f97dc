package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sub-digital/H.U.R.B.A.N.-Selector/pkg/kernel"
	"github.com/sub-digital/H.U.R.B.A.N.-Selector/pkg/kernel/sdfx"
	"github.com/sub-digital/H.U.R.B.A.N.-Selector/pkg/mesh"
	"github.com/sub-digital/H.U.R.B.A.N.-Selector/pkg/pipeline"
)

// booleanFunc is one of the two-mesh pipeline steps.
type booleanFunc func(a, b *mesh.Mesh, p pipeline.Params) (*mesh.Mesh, error)

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfg config

	root := &cobra.Command{
		Use:           "voxelfield",
		Short:         "Rebuild and combine meshes through a voxel distance field",
		Long:          "Rebuild and combine meshes through a voxel distance field.\nOutput ending in .json is written as flat vertex, normal and index buffers; anything else as binary STL.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(v); err != nil {
				return err
			}
			c, err := decodeConfig(v, cmd.Flags())
			if err != nil {
				return err
			}
			cfg = c
			logrus.WithFields(logrus.Fields{
				"voxel_size": cfg.Params.VoxelSize,
				"growth":     cfg.Params.Growth,
				"fill":       cfg.Params.FillClosedVolumes,
			}).Debug("configuration")
			return nil
		},
	}
	addPersistentFlags(root)
	if err := v.BindPFlags(root.PersistentFlags()); err != nil {
		panic(err)
	}

	root.AddCommand(
		newVoxelizeCmd(&cfg),
		newBooleanCmd(&cfg, "union", "Join two meshes", pipeline.Union),
		newBooleanCmd(&cfg, "intersect", "Keep the volume shared by two meshes", pipeline.Intersection),
		newBooleanCmd(&cfg, "subtract", "Remove the second mesh from the first", pipeline.Difference),
		newMetaballsCmd(&cfg),
		newTransformCmd(&cfg),
		newPrimitiveCmd(&cfg),
	)
	return root
}

func newVoxelizeCmd(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "voxelize IN.stl OUT",
		Short: "Thicken a mesh and rebuild it from voxels",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := load(args[0], cfg.WeldTolerance)
			if err != nil {
				return err
			}
			return run(*cfg, "voxelize", args[1], func() (*mesh.Mesh, error) {
				return pipeline.Voxelize(m, cfg.Params)
			})
		},
	}
}

func newBooleanCmd(cfg *config, name, short string, op booleanFunc) *cobra.Command {
	return &cobra.Command{
		Use:   name + " A.stl B.stl OUT",
		Short: short,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, b, err := loadPair(args[0], args[1], cfg.WeldTolerance)
			if err != nil {
				return err
			}
			return run(*cfg, name, args[2], func() (*mesh.Mesh, error) {
				return op(a, b, cfg.Params)
			})
		},
	}
}

func newMetaballsCmd(cfg *config) *cobra.Command {
	d := pipeline.DefaultBlendParams()
	var (
		multiplier float64
		volume     []float64
	)
	cmd := &cobra.Command{
		Use:   "metaballs A.stl B.stl OUT",
		Short: "Blend two meshes through summed falloff fields",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(volume) != 2 {
				return fmt.Errorf("volume-range: want two values, got %d", len(volume))
			}
			bp := pipeline.BlendParams{Multiplier: multiplier, Min: volume[0], Max: volume[1]}
			a, b, err := loadPair(args[0], args[1], cfg.WeldTolerance)
			if err != nil {
				return err
			}
			return run(*cfg, "metaballs", args[2], func() (*mesh.Mesh, error) {
				return pipeline.Metaballs(a, b, cfg.Params, bp)
			})
		},
	}
	f := cmd.Flags()
	f.Float64Var(&multiplier, "multiplier", d.Multiplier, "falloff speed in (0, 1]; lower is smoother")
	f.Float64SliceVar(&volume, "volume-range", []float64{d.Min, d.Max}, "summed field values to mesh as min,max")
	return cmd
}

func newTransformCmd(cfg *config) *cobra.Command {
	var translate, rotate, scale []float64
	cmd := &cobra.Command{
		Use:   "transform IN.stl OUT",
		Short: "Move, rotate and scale a mesh in voxel space",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var pl pipeline.Placement
			var err error
			if pl.Translate, err = vec3(translate); err != nil {
				return fmt.Errorf("translate: %w", err)
			}
			if pl.Rotate, err = vec3(rotate); err != nil {
				return fmt.Errorf("rotate: %w", err)
			}
			if pl.Scale, err = vec3(scale); err != nil {
				return fmt.Errorf("scale: %w", err)
			}
			m, err := load(args[0], cfg.WeldTolerance)
			if err != nil {
				return err
			}
			return run(*cfg, "transform", args[1], func() (*mesh.Mesh, error) {
				return pipeline.Transform(m, cfg.Params, pl)
			})
		},
	}
	f := cmd.Flags()
	f.Float64SliceVar(&translate, "translate", []float64{0, 0, 0}, "translation as x,y,z")
	f.Float64SliceVar(&rotate, "rotate", []float64{0, 0, 0}, "rotation in degrees about x,y,z")
	f.Float64SliceVar(&scale, "scale", []float64{1, 1, 1}, "scale as x,y,z or a single uniform value")
	return cmd
}

// shape holds the dimension flags shared by both operands of primitive.
type shape struct {
	size   []float64
	radius float64
	height float64
}

func newPrimitiveCmd(cfg *config) *cobra.Command {
	var (
		dims   shape
		at     []float64
		rotate []float64
		with   string
		withAt []float64
		op     string
		direct bool
	)
	cmd := &cobra.Command{
		Use:   "primitive box|cylinder|sphere OUT",
		Short: "Voxelize a primitive solid, optionally combined with a second one",
		Long: "Voxelize a primitive solid centred on --at.\n" +
			"With --with, a second primitive of the same dimensions placed at --with-at is\n" +
			"combined with the first by --op before voxelizing.",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"box", "cylinder", "sphere"},
		RunE: func(cmd *cobra.Command, args []string) error {
			k := sdfx.New()
			s, err := placed(k, args[0], dims, at, rotate)
			if err != nil {
				return err
			}
			name := args[0]
			if with != "" {
				other, err := placed(k, with, dims, withAt, []float64{0, 0, 0})
				if err != nil {
					return err
				}
				if s, err = combineSolids(k, op, s, other); err != nil {
					return err
				}
				name = fmt.Sprintf("%s-%s-%s", args[0], op, with)
			}
			if direct {
				return run(*cfg, "primitive", args[1], func() (*mesh.Mesh, error) {
					return k.ToMesh(s)
				})
			}
			return run(*cfg, "primitive", args[1], func() (*mesh.Mesh, error) {
				m, err := pipeline.VoxelizeSolid(sdfx.SDF(s), cfg.Params)
				if err != nil {
					return nil, err
				}
				m.Name = name
				return m, nil
			})
		},
	}
	f := cmd.Flags()
	f.Float64SliceVar(&dims.size, "size", []float64{10, 10, 10}, "box size as x,y,z or a single edge length")
	f.Float64Var(&dims.radius, "radius", 5, "cylinder or sphere radius")
	f.Float64Var(&dims.height, "height", 10, "cylinder height along Z")
	f.Float64SliceVar(&at, "at", []float64{0, 0, 0}, "centre of the primitive as x,y,z")
	f.Float64SliceVar(&rotate, "rotate", []float64{0, 0, 0}, "rotation in degrees about x,y,z")
	f.StringVar(&with, "with", "", "second primitive: box, cylinder or sphere")
	f.Float64SliceVar(&withAt, "with-at", []float64{0, 0, 0}, "centre of the second primitive as x,y,z")
	f.StringVar(&op, "op", "union", "how to combine with the second primitive: union, intersect or subtract")
	f.BoolVar(&direct, "direct", false, "mesh the solid directly instead of through voxels")
	return cmd
}

// primitive builds the named solid with k, centred on the origin.
func primitive(k kernel.Kernel, name string, dims shape) (kernel.Solid, error) {
	switch name {
	case "box":
		d, err := vec3(dims.size)
		if err != nil {
			return nil, fmt.Errorf("box size: %w", err)
		}
		if d.X <= 0 || d.Y <= 0 || d.Z <= 0 {
			return nil, fmt.Errorf("box size %v must be positive", dims.size)
		}
		return k.Box(d.X, d.Y, d.Z), nil
	case "cylinder":
		if dims.radius <= 0 || dims.height <= 0 {
			return nil, fmt.Errorf("cylinder needs positive radius and height, got %g and %g", dims.radius, dims.height)
		}
		return k.Cylinder(dims.height, dims.radius, 0), nil
	case "sphere":
		if dims.radius <= 0 {
			return nil, fmt.Errorf("sphere needs a positive radius, got %g", dims.radius)
		}
		return k.Sphere(dims.radius), nil
	default:
		return nil, fmt.Errorf("unknown primitive %q", name)
	}
}

// placed builds a primitive, rotates it about its centre and moves the
// centre to at.
func placed(k kernel.Kernel, name string, dims shape, at, rotate []float64) (kernel.Solid, error) {
	s, err := primitive(k, name, dims)
	if err != nil {
		return nil, err
	}
	r, err := vec3(rotate)
	if err != nil {
		return nil, fmt.Errorf("rotate: %w", err)
	}
	if r != (v3.Vec{}) {
		s = k.Rotate(s, r.X, r.Y, r.Z)
	}
	t, err := vec3(at)
	if err != nil {
		return nil, fmt.Errorf("at: %w", err)
	}
	if t != (v3.Vec{}) {
		s = k.Translate(s, t.X, t.Y, t.Z)
	}
	return s, nil
}

// combineSolids applies the kernel boolean named op.
func combineSolids(k kernel.Kernel, op string, a, b kernel.Solid) (kernel.Solid, error) {
	switch op {
	case "union":
		return k.Union(a, b), nil
	case "intersect":
		return k.Intersection(a, b), nil
	case "subtract":
		return k.Difference(a, b), nil
	default:
		return nil, fmt.Errorf("unknown operation %q", op)
	}
}

// load reads an STL file and names the mesh after it.
func load(path string, tolerance float64) (*mesh.Mesh, error) {
	m, err := mesh.LoadSTL(path, tolerance)
	if err != nil {
		return nil, err
	}
	m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	logrus.WithFields(logrus.Fields{
		"file":      path,
		"triangles": m.TriangleCount(),
	}).Debug("mesh loaded")
	return m, nil
}

func loadPair(a, b string, tolerance float64) (*mesh.Mesh, *mesh.Mesh, error) {
	ma, err := load(a, tolerance)
	if err != nil {
		return nil, nil, err
	}
	mb, err := load(b, tolerance)
	if err != nil {
		return nil, nil, err
	}
	return ma, mb, nil
}

// run executes step on a worker and writes its result to out.
func run(cfg config, name, out string, step pipeline.Step) error {
	w := pipeline.NewWorker(cfg.Timeout)
	m, err := w.Run(name, step)
	if err != nil {
		return err
	}
	if err := save(m, out); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"step":      name,
		"file":      out,
		"triangles": m.TriangleCount(),
		"vertices":  m.VertexCount(),
	}).Info("mesh written")
	return nil
}

// save writes m as flat JSON buffers when out ends in .json and as STL
// otherwise.
func save(m *mesh.Mesh, out string) error {
	if !strings.EqualFold(filepath.Ext(out), ".json") {
		return m.SaveSTL(out)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	if err := json.NewEncoder(f).Encode(m.Flatten()); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", out, err)
	}
	return f.Close()
}
