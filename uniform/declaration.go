package uniform

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingUniform is matched by every error reporting a declared
	// uniform that has no entry in the program's locations.
	ErrMissingUniform   = errors.New("uniform has no location")
	ErrDuplicateUniform = errors.New("uniform declared twice")
)

// Locations maps uniform names, exactly as spelled in shader source, to their
// locations in one linked program.
type Locations map[string]Location

// MissingUniformError reports a uniform a variant declares but the locations
// do not contain.
type MissingUniformError struct {
	Variant string
	Name    string
}

func (e *MissingUniformError) Error() string {
	return fmt.Sprintf("%s: uniform %q has no location", e.Variant, e.Name)
}

func (e *MissingUniformError) Unwrap() error { return ErrMissingUniform }

// Declaration builds the bindings of one uniform set. Lookups that fail are
// collected rather than aborting, so Err reports every missing name at once.
// Bindings for missing names are still returned, bound to Inactive, but the
// set must not be used when Err is non-nil.
type Declaration struct {
	ctx         Context
	locations   Locations
	variant     string
	descriptors []Descriptor
	seen        map[string]struct{}
	errs        []error
}

// NewDeclaration starts declaring the uniform set of the named variant.
func NewDeclaration(ctx Context, locations Locations, variant string) *Declaration {
	return &Declaration{
		ctx:       ctx,
		locations: locations,
		variant:   variant,
		seen:      make(map[string]struct{}),
	}
}

func (d *Declaration) lookup(name string, t Type) Location {
	if _, dup := d.seen[name]; dup {
		d.errs = append(d.errs, fmt.Errorf("%s: %q: %w", d.variant, name, ErrDuplicateUniform))
		return Inactive
	}
	d.seen[name] = struct{}{}

	loc, ok := d.locations[name]
	if !ok {
		d.errs = append(d.errs, &MissingUniformError{Variant: d.variant, Name: name})
		loc = Inactive
	}
	d.descriptors = append(d.descriptors, Descriptor{Name: name, Type: t, Location: loc})
	return loc
}

func (d *Declaration) Int(name string) *Uniform1i {
	return NewUniform1i(d.ctx, name, d.lookup(name, Int))
}

func (d *Declaration) Float(name string) *Uniform1f {
	return NewUniform1f(d.ctx, name, d.lookup(name, Float))
}

func (d *Declaration) Vec2(name string) *Uniform2f {
	return NewUniform2f(d.ctx, name, d.lookup(name, Vec2))
}

func (d *Declaration) Vec4(name string) *Uniform4f {
	return NewUniform4f(d.ctx, name, d.lookup(name, Vec4))
}

func (d *Declaration) Mat4(name string) *UniformMatrix4f {
	return NewUniformMatrix4f(d.ctx, name, d.lookup(name, Mat4))
}

func (d *Declaration) Color(name string) *UniformColor {
	return NewUniformColor(d.ctx, name, d.lookup(name, Color))
}

// Variant returns the variant name the declaration was started with.
func (d *Declaration) Variant() string { return d.variant }

// Descriptors returns the declared uniforms in declaration order.
func (d *Declaration) Descriptors() []Descriptor {
	out := make([]Descriptor, len(d.descriptors))
	copy(out, d.descriptors)
	return out
}

// Err returns all lookup failures joined, or nil.
func (d *Declaration) Err() error {
	return errors.Join(d.errs...)
}

// Names returns the names of descs in order.
func Names(descs []Descriptor) []string {
	names := make([]string, len(descs))
	for i, desc := range descs {
		names[i] = desc.Name
	}
	return names
}
