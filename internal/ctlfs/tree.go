package ctlfs

import "codeberg.org/mutker/clkctl/internal/errors"

// attribute is one named control-plane endpoint backed by a core
// operation. A nil write marks it read-only.
type attribute struct {
	name  string
	read  func() (string, error)
	write func(value string) error
}

// dir is one container of attributes: the root, or one per-clock sub-tree.
type dir struct {
	name  string
	attrs map[string]*attribute
	order []string
}

func newDir(name string) *dir {
	return &dir{
		name:  name,
		attrs: make(map[string]*attribute),
	}
}

func (d *dir) addAttr(name string, read func() (string, error), write func(string) error) error {
	errFactory := errors.New()

	if _, ok := d.attrs[name]; ok {
		return errFactory.WithData(ErrResourceExhausted, d.name+"/"+name)
	}

	d.attrs[name] = &attribute{
		name:  name,
		read:  read,
		write: write,
	}
	d.order = append(d.order, name)

	return nil
}

func (d *dir) attr(name string) (*attribute, bool) {
	a, ok := d.attrs[name]
	return a, ok
}

func (d *dir) attrNames() []string {
	return d.order
}
