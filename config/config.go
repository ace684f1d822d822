// Package config loads a project's YAML description into a taskstore.Store.
// The on-disk field names mirror the record keys the engine works with
// (BLOCK, RUN_ORDER, the action record's COMMAND/PATH/RUN_METHOD/VIEWER/
// REPORT_FILE) rather than inventing a parallel vocabulary for the same
// data.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ifprun/ifprun/taskstore"
)

// projectFile is the on-disk shape of a project's YAML description.
type projectFile struct {
	Block map[string]blockFile `yaml:"BLOCK"`
}

type blockFile struct {
	Version map[string]versionFile `yaml:"VERSION"`
}

// versionFile carries RUN_ORDER — the ordered sequence of flow bundles,
// each bundle a set of flow names that run in parallel — and the FLOW tree
// beneath this (Block,Version) pipeline.
type versionFile struct {
	RunOrder [][]string          `yaml:"RUN_ORDER"`
	Flow     map[string]flowFile `yaml:"FLOW"`
}

type flowFile struct {
	Vendor map[string]vendorFile `yaml:"VENDOR"`
}

type vendorFile struct {
	Branch map[string]branchFile `yaml:"BRANCH"`
}

// branchFile is a (Block,Version,Flow,Vendor,Branch) group: RUN_TYPE plus an
// ordered task list. Task is a slice, not a map, because within a group the
// declared order is load-bearing: a serial group gates task i on task i-1,
// in the order they're written.
type branchFile struct {
	RunType taskstore.RunType `yaml:"RUN_TYPE"`
	Task    []taskFile        `yaml:"TASK"`
}

type taskFile struct {
	Name   string                `yaml:"NAME"`
	Action map[string]actionFile `yaml:"ACTION"`
}

type actionFile struct {
	Command    string `yaml:"COMMAND"`
	Path       string `yaml:"PATH"`
	RunMethod  string `yaml:"RUN_METHOD"`
	Viewer     string `yaml:"VIEWER"`
	ReportFile string `yaml:"REPORT_FILE"`
}

// LoadYAML reads a project file at path and builds a populated
// taskstore.Store from it.
func LoadYAML(path string) (*taskstore.Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var pf projectFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return build(pf), nil
}

func build(pf projectFile) *taskstore.Store {
	store := taskstore.NewStore()

	for blockName, block := range pf.Block {
		for versionName, version := range block.Version {
			store.SetRunOrder(blockName, versionName, version.RunOrder)

			for flowName, flow := range version.Flow {
				for vendorName, vendor := range flow.Vendor {
					for branchName, branch := range vendor.Branch {
						runType := branch.RunType
						if runType == "" {
							runType = taskstore.Parallel
						}
						store.SetRunType(blockName, versionName, flowName, vendorName, branchName, runType)

						for _, tf := range branch.Task {
							identity := taskstore.Identity{
								Block:   blockName,
								Version: versionName,
								Flow:    flowName,
								Vendor:  vendorName,
								Branch:  branchName,
								Task:    tf.Name,
							}
							store.AddTask(taskstore.NewTask(identity, buildActions(tf.Action)))
						}
					}
				}
			}
		}
	}

	return store
}

func buildActions(actions map[string]actionFile) map[taskstore.Stage]taskstore.Action {
	out := make(map[taskstore.Stage]taskstore.Action, len(actions))
	for stageName, af := range actions {
		out[taskstore.Stage(stageName)] = taskstore.Action{
			Command:    af.Command,
			Path:       af.Path,
			RunMethod:  af.RunMethod,
			Viewer:     af.Viewer,
			ReportFile: af.ReportFile,
		}
	}
	return out
}
