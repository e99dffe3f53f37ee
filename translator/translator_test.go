package translator_test

import (
	"slices"
	"testing"

	"github.com/richinsley/goterrain/shader"
	"github.com/richinsley/goterrain/terrain"
	"github.com/richinsley/goterrain/translator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateReportsActiveUniforms(t *testing.T) {
	for _, gles := range []bool{false, true} {
		for _, variant := range shader.Programs {
			src, err := shader.Get(variant)
			require.NoError(t, err)

			tr, err := translator.Translate(src.Vertex, src.Fragment, gles)
			require.NoError(t, err, variant)
			assert.NotEmpty(t, tr.Vertex)
			assert.NotEmpty(t, tr.Fragment)

			decls := slices.Concat(terrain.Declarations[terrain.VariantPrelude], terrain.Declarations[variant])
			for _, d := range decls {
				if d.Name == terrain.UDepth {
					// declared by the prelude but never sampled
					assert.NotContains(t, tr.Mapped, d.Name, variant)
					continue
				}
				assert.Equal(t, "_u"+d.Name, tr.Mapped[d.Name], "%s %s", variant, d.Name)
				assert.True(t, d.Type.AcceptsGL(tr.Types[d.Name]), "%s %s: GL type %#x", variant, d.Name, tr.Types[d.Name])
			}
		}
	}
}

func TestTranslateRejectsInvalidSource(t *testing.T) {
	_, err := translator.Translate("#version 300 es\nvoid main() { undefined(); }", "#version 300 es\nvoid main() {}", false)
	assert.Error(t, err)
}
