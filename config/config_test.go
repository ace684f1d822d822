package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ifprun/ifprun/taskstore"
)

const sampleProject = `
BLOCK:
  B1:
    VERSION:
      V1:
        RUN_ORDER:
          - [syn]
          - [pnr, sta]
        FLOW:
          syn:
            VENDOR:
              cdn:
                BRANCH:
                  br0:
                    RUN_TYPE: serial
                    TASK:
                      - NAME: t1
                        ACTION:
                          RUN:
                            COMMAND: run_t1.sh
                            PATH: /work/b1/v1/syn
                      - NAME: t2
                        ACTION:
                          RUN:
                            COMMAND: run_t2.sh
                            RUN_METHOD: "bsub -q normal"
          pnr:
            VENDOR:
              cdn:
                BRANCH:
                  br0:
                    TASK:
                      - NAME: p1
                        ACTION:
                          RUN:
                            COMMAND: run_p1.sh
`

func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "project.yaml")
	if err := os.WriteFile(path, []byte(sampleProject), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadYAML_BuildsStore(t *testing.T) {
	store, err := LoadYAML(writeSample(t))
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}

	order := store.RunOrder("B1", "V1")
	if len(order) != 2 || len(order[0]) != 1 || order[0][0] != "syn" || len(order[1]) != 2 {
		t.Fatalf("RunOrder = %v, want [[syn] [pnr sta]]", order)
	}

	if rt := store.RunType("B1", "V1", "syn", "cdn", "br0"); rt != taskstore.Serial {
		t.Errorf("syn group RunType = %v, want serial", rt)
	}
	if rt := store.RunType("B1", "V1", "pnr", "cdn", "br0"); rt != taskstore.Parallel {
		t.Errorf("pnr group RunType (unset) = %v, want parallel default", rt)
	}

	t1, ok := store.Lookup(taskstore.Identity{Block: "B1", Version: "V1", Flow: "syn", Vendor: "cdn", Branch: "br0", Task: "t1"})
	if !ok {
		t.Fatal("t1 not found")
	}
	act, defined := t1.Action(taskstore.Run)
	if !defined || act.Command != "run_t1.sh" || act.Path != "/work/b1/v1/syn" {
		t.Errorf("t1 RUN action = %+v, defined=%v", act, defined)
	}

	t2, ok := store.Lookup(taskstore.Identity{Block: "B1", Version: "V1", Flow: "syn", Vendor: "cdn", Branch: "br0", Task: "t2"})
	if !ok {
		t.Fatal("t2 not found")
	}
	act2, _ := t2.Action(taskstore.Run)
	if act2.RunMethod != "bsub -q normal" {
		t.Errorf("t2 RUN_METHOD = %q, want %q", act2.RunMethod, "bsub -q normal")
	}
}

func TestLoadYAML_PreservesTaskOrderWithinGroup(t *testing.T) {
	store, err := LoadYAML(writeSample(t))
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}

	var serialTaskNames []string
	for _, tk := range store.Tasks() {
		if tk.Identity.GroupKey() == (taskstore.Identity{Block: "B1", Version: "V1", Flow: "syn", Vendor: "cdn", Branch: "br0"}).GroupKey() {
			serialTaskNames = append(serialTaskNames, tk.Identity.Task)
		}
	}
	if len(serialTaskNames) != 2 || serialTaskNames[0] != "t1" || serialTaskNames[1] != "t2" {
		t.Errorf("serial group task order = %v, want [t1 t2] (declared order)", serialTaskNames)
	}
}

func TestLoadYAML_MissingFile(t *testing.T) {
	if _, err := LoadYAML("/nonexistent/project.yaml"); err == nil {
		t.Error("expected an error for a missing project file")
	}
}
