package loaders

import (
	"fmt"
	"path/filepath"

	"github.com/spaghettifunk/orbit/engine/renderer/metadata"
)

// ShaderLoader loads <name>.vert.spv and <name>.frag.spv from a directory.
type ShaderLoader struct {
	binary BinaryLoader
}

// Load expects path to be the shader directory and params the shader name.
func (sl *ShaderLoader) Load(path string, params interface{}) (*metadata.Resource, error) {
	name, ok := params.(string)
	if !ok || name == "" {
		return nil, fmt.Errorf("shader loader expects a shader name")
	}

	vert, err := sl.binary.Load(filepath.Join(path, name+".vert.spv"), name)
	if err != nil {
		return nil, fmt.Errorf("failed to load vertex stage of %s: %w", name, err)
	}
	frag, err := sl.binary.Load(filepath.Join(path, name+".frag.spv"), name)
	if err != nil {
		return nil, fmt.Errorf("failed to load fragment stage of %s: %w", name, err)
	}

	return &metadata.Resource{
		Name:     name,
		FullPath: path,
		Type:     metadata.ResourceTypeShader,
		DataSize: vert.DataSize + frag.DataSize,
		Data: &metadata.ShaderResourceData{
			Vertex:   vert.Data.([]uint32),
			Fragment: frag.Data.([]uint32),
		},
	}, nil
}

func (sl *ShaderLoader) Unload(res *metadata.Resource) error {
	if res != nil {
		res.Data = nil
	}
	return nil
}
