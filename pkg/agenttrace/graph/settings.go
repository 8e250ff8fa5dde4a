package graph

import (
	"time"

	"github.com/randalmurphal/agenttrace/pkg/agenttrace/config"
)

// LayoutConfigFrom reads a layout configuration from cfg under the given
// key prefix (e.g. "hierarchy" reads "hierarchy.node_width" and so on),
// falling back to def for any missing key.
func LayoutConfigFrom(cfg config.Config, prefix string, def LayoutConfig) LayoutConfig {
	return LayoutConfig{
		NodeWidth:  cfg.Float(prefix+".node_width", def.NodeWidth),
		NodeHeight: cfg.Float(prefix+".node_height", def.NodeHeight),
		RankSep:    cfg.Float(prefix+".rank_sep", def.RankSep),
		NodeSep:    cfg.Float(prefix+".node_sep", def.NodeSep),
	}
}

// CloseStartWindowFrom reads the parallel-detection window from cfg
// (key "graph.close_start_window"), falling back to the default.
func CloseStartWindowFrom(cfg config.Config) time.Duration {
	return cfg.Duration("graph.close_start_window", DefaultCloseStartWindow)
}

// ConverterFrom builds a Converter from cfg.
func ConverterFrom(cfg config.Config) Converter {
	return Converter{CloseStartWindow: CloseStartWindowFrom(cfg)}
}
