// Package program links the terrain shader programs and resolves the
// locations of their uniforms.
package program

import (
	"errors"
	"fmt"
	"log"

	"github.com/richinsley/goterrain/graphics"
	"github.com/richinsley/goterrain/shader"
	"github.com/richinsley/goterrain/terrain"
	"github.com/richinsley/goterrain/translator"
	"github.com/richinsley/goterrain/uniform"
)

var ErrTypeMismatch = errors.New("uniform type mismatch")

// Program is a linked terrain program.
type Program struct {
	Variant string
	ID      uint32
	// Locations holds an entry for every uniform the sources declare.
	// Uniforms the compiler removed are present with location -1.
	Locations uniform.Locations
}

// Link translates, compiles and links the program for variant.
func Link(dev graphics.Device, variant string, gles bool) (*Program, error) {
	src, err := shader.Get(variant)
	if err != nil {
		return nil, err
	}
	translated, err := translator.Translate(src.Vertex, src.Fragment, gles)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", variant, err)
	}
	p, err := Build(dev, src, translated)
	if err != nil {
		return nil, err
	}
	log.Printf("linked %s program (%d uniforms)", variant, len(p.Locations))
	return p, nil
}

// Build creates the program from already translated sources.
func Build(dev graphics.Device, src shader.Source, translated *translator.Program) (*Program, error) {
	if err := checkTypes(src.Variant, translated.Types); err != nil {
		return nil, err
	}

	id, err := dev.CreateProgram(translated.Vertex, translated.Fragment)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s program: %w", src.Variant, err)
	}

	p := &Program{
		Variant:   src.Variant,
		ID:        id,
		Locations: make(uniform.Locations),
	}
	for _, u := range src.Uniforms() {
		mapped, ok := translated.Mapped[u.Name]
		if !ok {
			p.Locations[u.Name] = uniform.Inactive
			continue
		}
		p.Locations[u.Name] = dev.UniformLocation(id, mapped)
	}
	return p, nil
}

// Delete releases the GPU program.
func (p *Program) Delete(dev graphics.Device) {
	if p.ID != 0 {
		dev.DeleteProgram(p.ID)
		p.ID = 0
	}
}

func checkTypes(variant string, types map[string]uint) error {
	var errs []error
	for _, set := range []string{terrain.VariantPrelude, variant} {
		for _, d := range terrain.Declarations[set] {
			glType, ok := types[d.Name]
			if ok && !d.Type.AcceptsGL(glType) {
				errs = append(errs, fmt.Errorf("%w: %s: %s is GL type 0x%X, want %s", ErrTypeMismatch, variant, d.Name, glType, d.Type))
			}
		}
	}
	return errors.Join(errs...)
}

// Verify checks, without a GPU, that the sources of variant declare every
// uniform of the prelude set and of the variant's own set with a type the
// binding can upload.
func Verify(variant string) error {
	src, err := shader.Get(variant)
	if err != nil {
		return err
	}
	declared := make(map[string]string)
	for _, u := range src.Uniforms() {
		declared[u.Name] = u.Type
	}

	var errs []error
	for _, set := range []string{terrain.VariantPrelude, variant} {
		for _, d := range terrain.Declarations[set] {
			glsl, ok := declared[d.Name]
			switch {
			case !ok:
				errs = append(errs, &uniform.MissingUniformError{Variant: variant, Name: d.Name})
			case !d.Type.AcceptsGLSL(glsl):
				errs = append(errs, fmt.Errorf("%w: %s: %s is declared %s, want %s", ErrTypeMismatch, variant, d.Name, glsl, d.Type))
			}
		}
	}
	return errors.Join(errs...)
}

// VerifyAll runs Verify for every terrain program.
func VerifyAll() error {
	var errs []error
	for _, variant := range shader.Programs {
		errs = append(errs, Verify(variant))
	}
	return errors.Join(errs...)
}
