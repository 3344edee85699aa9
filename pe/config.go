package pe

import (
	"os"
	"runtime"
	"strconv"

	"github.com/juju/errors"
	"gopkg.in/yaml.v3"

	"github.com/lynxkite/lynxkite/posenc/node2vec"
	"github.com/lynxkite/lynxkite/posenc/spectral"
)

// Options of one encoding run. The zero value of a size skips that block.
type Options struct {
	LeSize  int `yaml:"le_size"`
	RwSize  int `yaml:"rw_size"`
	N2vSize int `yaml:"n2v_size"`
	// Reuse the cached encoding if there is one.
	UseCached bool `yaml:"use_cached"`
	// Only "cpu" is available. Anything else falls back to it.
	Device string `yaml:"device"`
	// The random walk block is computed and stored only if this is set.
	IncludeDiffusion bool             `yaml:"include_diffusion"`
	Degenerate       DegeneratePolicy `yaml:"degenerate"`
	// Zero means a clock-based seed.
	Seed int64 `yaml:"seed"`

	Spectral                spectral.SolverOptions `yaml:"spectral"`
	DiffusionDenseThreshold int                    `yaml:"diffusion_dense_threshold"`
	// Dim is taken from N2vSize.
	Node2Vec node2vec.Config `yaml:"node2vec"`
}

func DefaultOptions() Options {
	return Options{
		LeSize:     50,
		RwSize:     50,
		N2vSize:    128,
		Device:     "cpu",
		Degenerate: DegenerateZero,
		Node2Vec:   node2vec.Config{Workers: NumericEnv("POSENC_THREADS", runtime.NumCPU())},
	}
}

// Dim is the width of the assembled encoding.
func (o Options) Dim() int {
	d := o.LeSize + o.N2vSize
	if o.IncludeDiffusion {
		d += o.RwSize
	}
	return d
}

func (o Options) validate() error {
	if o.LeSize < 0 || o.RwSize < 0 || o.N2vSize < 0 {
		return errors.NotValidf("encoding sizes le=%d rw=%d n2v=%d", o.LeSize, o.RwSize, o.N2vSize)
	}
	return o.Degenerate.validate()
}

// LoadConfig reads Options from a YAML file. Fields missing from the file
// keep their DefaultOptions value.
func LoadConfig(path string) (Options, error) {
	o := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return o, errors.Trace(err)
	}
	if err := yaml.Unmarshal(data, &o); err != nil {
		return o, errors.Annotatef(err, "parsing %v", path)
	}
	return o, errors.Trace(o.validate())
}

// NumericEnv returns the integer value of an environment variable, or dflt if it is not set.
func NumericEnv(key string, dflt int) int {
	s, exists := os.LookupEnv(key)
	if exists {
		v, _ := strconv.ParseInt(s, 10, 64)
		return int(v)
	} else {
		return dflt
	}
}
