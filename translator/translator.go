package translator

import (
	"context"
	"fmt"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
)

var (
	translator     *gst.ShaderTranslator
	translatorErr  error
	translatorOnce sync.Once
)

// GetTranslator returns the process wide shader translator, creating it on
// first use.
func GetTranslator() (*gst.ShaderTranslator, error) {
	translatorOnce.Do(func() {
		translator, translatorErr = gst.NewShaderTranslator(context.Background())
	})
	return translator, translatorErr
}

// Program is a vertex/fragment pair translated to the target dialect.
type Program struct {
	Vertex   string
	Fragment string
	// Mapped holds the translated name of every active uniform, keyed by
	// the name in the source. Uniforms the translator optimized away are
	// missing.
	Mapped map[string]string
	// Types holds the GL type enum of every active uniform.
	Types map[string]uint
}

// Translate converts WebGL2 sources to GLSL 4.10, or to ESSL when gles is set.
func Translate(vertexSource, fragmentSource string, gles bool) (*Program, error) {
	t, err := GetTranslator()
	if err != nil {
		return nil, fmt.Errorf("shader translator unavailable: %w", err)
	}

	outputFormat := gst.OutputFormatGLSL410
	if gles {
		outputFormat = gst.OutputFormatESSL
	}

	vs, err := t.TranslateShader(vertexSource, "vertex", gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return nil, fmt.Errorf("vertex shader translation failed: %w", err)
	}
	fs, err := t.TranslateShader(fragmentSource, "fragment", gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return nil, fmt.Errorf("fragment shader translation failed: %w", err)
	}

	p := &Program{
		Vertex:   vs.Code,
		Fragment: fs.Code,
		Mapped:   make(map[string]string),
		Types:    make(map[string]uint),
	}
	for _, vars := range []map[string]gst.ShaderVariable{vs.Variables, fs.Variables} {
		for name, v := range vars {
			if _, ok := p.Mapped[name]; ok || !v.Active {
				continue
			}
			p.Mapped[name] = v.MappedName
			p.Types[name] = v.Type
		}
	}
	return p, nil
}
