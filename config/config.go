package config

import (
	"fmt"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/logrusadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
)

// Configuration keys.
const (
	KeyTracingAdapter = "tracing.adapter"
	KeyTraceLevel     = "tracelevel" // prefix for trace levels
	KeyWorkers        = "expand.workers"
	KeyMaxDepth       = "expand.maxdepth"
	KeyArchiveStream  = "archive.stream"
	KeyArchiveMax     = "archive.maxbytes"
	KeyTextMax        = "text.maxbytes"
)

// Suffixes of configuration files searched for.
var Suffixes = []string{"nt"}

var defaults = map[string]interface{}{
	KeyTracingAdapter:       "go",
	KeyTraceLevel + ".root": "Error",
	KeyWorkers:              4,
	KeyMaxDepth:             0,
	KeyArchiveStream:        false,
	KeyArchiveMax:           64 << 20,
	KeyTextMax:              4096,
}

// Packages tracing with a key "treeview.<package>".
var Packages = []string{"datanode", "eventloop", "factory", "formats", "model", "tree"}

func init() {
	for _, pkg := range Packages {
		defaults[KeyTraceLevel+".treeview."+pkg] = "Error"
	}
}

// Config is the configuration of an application.
type Config struct {
	*koanfadapter.KConf
}

var _ schuko.Configuration = &Config{}

// Load creates a configuration from defaults and from a configuration file
// for appTag, if one exists. An empty appTag suppresses the search for a
// file.
func Load(appTag string) *Config {
	k := koanf.New(".")
	// errors are impossible for a confmap without parser
	_ = k.Load(confmap.Provider(defaults, "."), nil)
	conf := &Config{KConf: koanfadapter.New(k, appTag, Suffixes)}
	conf.InitDefaults()
	return conf
}

// Workers returns the number of concurrent expanders, at least 1.
func (conf *Config) Workers() int {
	if n := conf.GetInt(KeyWorkers); n > 0 {
		return n
	}
	return 1
}

// MaxDepth returns the depth limit for recursive expansion, 0 for none.
func (conf *Config) MaxDepth() int {
	if d := conf.GetInt(KeyMaxDepth); d > 0 {
		return d
	}
	return 0
}

// ArchiveStream is true if tar files are to be accessed by streaming only.
func (conf *Config) ArchiveStream() bool {
	return conf.GetBool(KeyArchiveStream)
}

// ArchiveMaxBytes returns the limit for archives read into memory.
func (conf *Config) ArchiveMaxBytes() int64 {
	return int64(conf.GetInt(KeyArchiveMax))
}

// TextMaxBytes returns the limit for text and hex previews.
func (conf *Config) TextMaxBytes() int {
	return conf.GetInt(KeyTextMax)
}

// adapters known to SetupTracing
var adapters = map[string]tracing.Adapter{
	"go":     gologadapter.GetAdapter(),
	"logrus": logrusadapter.GetAdapter(),
}

// SetupTracing installs trace2go as the global trace selector. The trace
// adapter is chosen by key tracing.adapter, trace levels are read from keys
// below tracelevel. Tracers selected earlier are replaced.
func SetupTracing(conf *Config) error {
	name := conf.GetString(KeyTracingAdapter)
	if _, ok := adapters[name]; !ok && name != "nop" {
		return fmt.Errorf("unknown tracing adapter %q", name)
	}
	for key, adapter := range adapters {
		tracing.RegisterTraceAdapter(key, adapter, false)
	}
	if err := trace2go.ConfigureRoot(conf, KeyTraceLevel, trace2go.ReplaceTracers(true)); err != nil {
		return fmt.Errorf("configuring tracing: %w", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}
