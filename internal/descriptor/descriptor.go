// Package descriptor emits the ChRIS plugin descriptor: the JSON manifest
// the platform uses to register a ds plugin and render its parameters.
package descriptor

import (
	"encoding/json"
	"io"
)

// Parameter describes one CLI option of the plugin.
type Parameter struct {
	Name      string      `json:"name"`
	Type      string      `json:"type"`
	Optional  bool        `json:"optional"`
	Flag      string      `json:"flag"`
	ShortFlag string      `json:"short_flag,omitempty"`
	Default   interface{} `json:"default"`
	Help      string      `json:"help"`
	UIExposed bool        `json:"ui_exposed"`
}

// Descriptor is the plugin manifest for upload to the ChRIS store.
type Descriptor struct {
	Name           string      `json:"name"`
	Title          string      `json:"title"`
	Category       string      `json:"category"`
	Type           string      `json:"type"`
	Description    string      `json:"description"`
	Version        string      `json:"version"`
	Authors        string      `json:"authors"`
	Documentation  string      `json:"documentation"`
	License        string      `json:"license"`
	SelfExec       string      `json:"selfexec"`
	SelfPath       string      `json:"selfpath"`
	ExecShell      string      `json:"execshell"`
	MinNumWorkers  int         `json:"min_number_of_workers"`
	MaxNumWorkers  int         `json:"max_number_of_workers"`
	MinMemoryLimit string      `json:"min_memory_limit"`
	MinCPULimit    string      `json:"min_cpu_limit"`
	MinGPULimit    int         `json:"min_gpu_limit"`
	MaxGPULimit    int         `json:"max_gpu_limit"`
	Parameters     []Parameter `json:"parameters"`
}

// Default returns the coneme descriptor for the given version.
func Default(version string) Descriptor {
	return Descriptor{
		Name:           "coneme",
		Title:          "Coneme",
		Category:       "",
		Type:           "ds",
		Description:    "A connectome csv file analyzer",
		Version:        version,
		Authors:        "FNNDSC <dev@babyMRI.org>",
		Documentation:  "https://github.com/FNNDSC/pl-coneme",
		License:        "MIT",
		SelfExec:       "coneme",
		SelfPath:       "/usr/local/bin",
		ExecShell:      "",
		MinNumWorkers:  1,
		MaxNumWorkers:  1,
		MinMemoryLimit: "100Mi",
		MinCPULimit:    "1000m",
		MinGPULimit:    0,
		MaxGPULimit:    0,
		Parameters: []Parameter{
			{
				Name:      "pattern",
				Type:      "str",
				Optional:  true,
				Flag:      "--pattern",
				ShortFlag: "-p",
				Default:   "**/*.csv",
				Help:      "input file filter glob",
				UIExposed: true,
			},
			{
				Name:      "subj",
				Type:      "str",
				Optional:  true,
				Flag:      "--subj",
				Default:   "",
				Help:      "subject id carried into results",
				UIExposed: true,
			},
			{
				Name:      "atlas",
				Type:      "str",
				Optional:  true,
				Flag:      "--atlas",
				Default:   "",
				Help:      "atlas name carried into results",
				UIExposed: true,
			},
			{
				Name:      "nnode",
				Type:      "int",
				Optional:  true,
				Flag:      "--nnode",
				Default:   0,
				Help:      "expected number of nodes in each connectome (0 = unchecked)",
				UIExposed: true,
			},
			{
				Name:      "measurementfile",
				Type:      "str",
				Optional:  true,
				Flag:      "--measurement-file",
				Default:   "measures.txt",
				Help:      "file with additional analysis meta, relative to the input directory",
				UIExposed: true,
			},
			{
				Name:      "workers",
				Type:      "int",
				Optional:  true,
				Flag:      "--workers",
				Default:   4,
				Help:      "number of parallel file workers",
				UIExposed: false,
			},
		},
	}
}

// WriteJSON writes the descriptor as indented JSON.
func (d Descriptor) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
