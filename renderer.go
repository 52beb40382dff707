package marionette

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// ShaderCache holds shader programs shared by every figure. It is a
// renderer static: register it with Framework.RegisterStatic so Dispose
// frees the programs.
type ShaderCache struct {
	programs map[string]*ebiten.Shader
	compile  func(src []byte) (*ebiten.Shader, error)
	releases int
}

// NewShaderCache returns an empty cache compiling Kage sources.
func NewShaderCache() *ShaderCache {
	return &ShaderCache{
		programs: make(map[string]*ebiten.Shader),
		compile:  ebiten.NewShader,
	}
}

// Program returns the shader registered under name, compiling src on first
// use.
func (c *ShaderCache) Program(name string, src []byte) (*ebiten.Shader, error) {
	if sh, ok := c.programs[name]; ok {
		return sh, nil
	}
	sh, err := c.compile(src)
	if err != nil {
		return nil, fmt.Errorf("compile shader %q: %w", name, err)
	}
	c.programs[name] = sh
	return sh, nil
}

// Len returns the number of live programs.
func (c *ShaderCache) Len() int { return len(c.programs) }

// Releases returns how many times StaticRelease freed at least one program.
func (c *ShaderCache) Releases() int { return c.releases }

// StaticRelease deallocates every program. Programs are recompiled on the
// next Program call.
func (c *ShaderCache) StaticRelease() {
	if len(c.programs) == 0 {
		return
	}
	for name, sh := range c.programs {
		if sh != nil {
			sh.Deallocate()
		}
		delete(c.programs, name)
	}
	c.releases++
}
