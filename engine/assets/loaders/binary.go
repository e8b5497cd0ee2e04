package loaders

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/orbit/engine/core"
	"github.com/spaghettifunk/orbit/engine/renderer/metadata"
)

// SPIRVMagic is the first word of every SPIR-V module.
const SPIRVMagic uint32 = 0x07230203

// BinaryLoader reads a file as-is, or as SPIR-V words when it ends in .spv.
type BinaryLoader struct{}

func (bl *BinaryLoader) Load(path string, params interface{}) (*metadata.Resource, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if n, ok := params.(string); ok && n != "" {
		name = n
	}

	res := &metadata.Resource{
		Name:     name,
		FullPath: path,
		Type:     metadata.ResourceTypeBinary,
		DataSize: uint64(len(buf)),
		Data:     buf,
	}
	if filepath.Ext(path) == ".spv" {
		code, err := BytesToSPIRV(buf)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		res.Data = code
	}
	return res, nil
}

func (bl *BinaryLoader) Unload(res *metadata.Resource) error {
	if res != nil {
		res.Data = nil
		res.DataSize = 0
	}
	return nil
}

// BytesToSPIRV converts little-endian bytes to SPIR-V words and checks the header.
func BytesToSPIRV(b []byte) ([]uint32, error) {
	if len(b) == 0 || len(b)%4 != 0 {
		return nil, fmt.Errorf("%w: spir-v size %d is not a multiple of 4", core.ErrInvalidAsset, len(b))
	}
	code := make([]uint32, len(b)/4)
	for i := range code {
		code[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	if code[0] != SPIRVMagic {
		return nil, fmt.Errorf("%w: bad spir-v magic 0x%08x", core.ErrInvalidAsset, code[0])
	}
	return code, nil
}
