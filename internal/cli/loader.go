package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/slpvec/internal/fixture"
)

// LoadError represents an error that occurred during fixture loading.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadFixture loads a block fixture from a CUE file.
//
// The file must export a `block` struct:
//
//	block: {
//		name: "entry"
//		insts: [
//			{name: "%a0", op: "read", elem: "u64", object: "@S", index: 0},
//			{name: "%s0", op: "add", args: ["%a0", "%a0"]},
//		]
//		deps: [
//			{from: "%a0", to: "%s0", kind: "data"},
//		]
//	}
func LoadFixture(path string) (*fixture.Fixture, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("fixture not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing fixture: %v", err)}
	}
	if info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a file: %s", path)}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("resolving path: %v", err)}
	}

	cfg := &load.Config{Dir: filepath.Dir(abs)}
	instances := load.Instances([]string{filepath.Base(abs)}, cfg)
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE file: %v", inst.Err)}
	}

	ctx := cuecontext.New()
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	blockVal := value.LookupPath(cue.ParsePath("block"))
	if !blockVal.Exists() {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "fixture has no `block` field"}
	}

	var f fixture.Fixture
	if err := blockVal.Decode(&f); err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("decoding block: %v", err)}
	}
	if len(f.Insts) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "fixture block has no instructions"}
	}

	return &f, nil
}
