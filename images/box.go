package images

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rohitnair11/Virtualization/config"
	"github.com/rohitnair11/Virtualization/utils"
)

// ErrImageNotFound is returned when the box image is absent from the store.
var ErrImageNotFound = errors.New("image not found")

// Box is a pulled bakerx box: an OVF appliance on the local filesystem.
type Box struct {
	Name string
	Path string
}

// Resolve returns the configured box. The Box is always populated so the
// caller can still report the expected path; the error is ErrImageNotFound
// (wrapped) when the OVF descriptor is missing or empty.
func Resolve(conf *config.Config) (*Box, error) {
	box := &Box{Name: conf.Box, Path: conf.ImagePath()}
	if !utils.ValidFile(box.Path) {
		return box, fmt.Errorf("%w: %s", ErrImageNotFound, box.Path)
	}
	return box, nil
}

// List returns the names of boxes present in the image store, sorted.
func List(conf *config.Config) ([]string, error) {
	entries, err := os.ReadDir(conf.ImageDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", conf.ImageDir(), err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && utils.ValidFile(filepath.Join(conf.ImageDir(), e.Name(), "box.ovf")) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// PullHint is the command that fetches the box with bakerx.
func (b *Box) PullHint() string {
	return fmt.Sprintf("bakerx pull cloud-images.ubuntu.com %s", b.Name)
}
