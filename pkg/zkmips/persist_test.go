package zkmips

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/zkmips/zkmips/internal/zkmips/config"
)

// buildMinimalELF mirrors internal/zkmips/mips's own test helper of the
// same name: a minimal little-endian MIPS32 ET_EXEC image with a single
// PT_LOAD segment, just enough for Setup/Load's LoadELF call to succeed.
func buildMinimalELF(entry uint32, data []byte) []byte {
	const ehsize = 52
	const phsize = 32
	const phoff = ehsize

	buf := new(bytes.Buffer)
	ident := make([]byte, 16)
	ident[0], ident[1], ident[2], ident[3] = 0x7f, 'E', 'L', 'F'
	ident[4], ident[5], ident[6] = 1, 1, 1

	le := binary.LittleEndian
	u16 := func(v uint16) { buf.Write(le.AppendUint16(nil, v)) }
	u32 := func(v uint32) { buf.Write(le.AppendUint32(nil, v)) }

	buf.Write(ident)
	u16(2) // e_type = ET_EXEC
	u16(8) // e_machine = EM_MIPS
	u32(1) // e_version
	u32(entry)
	u32(phoff)
	u32(0) // e_shoff
	u32(0) // e_flags
	u16(ehsize)
	u16(phsize)
	u16(1) // e_phnum
	u16(0)
	u16(0)
	u16(0)

	dataOff := uint32(phoff + phsize)
	u32(1) // p_type = PT_LOAD
	u32(dataOff)
	u32(entry)
	u32(entry)
	u32(uint32(len(data)))
	u32(uint32(len(data)))
	u32(5) // p_flags = R+X
	u32(4) // p_align

	buf.Write(data)
	return buf.Bytes()
}

func TestSaveLoadRoundTripsProvingKey(t *testing.T) {
	entry := uint32(0x4000)
	// A single zero word (SLL $0,$0,0, a no-op) is enough for chips.NewMachine to
	// register the program chip; Setup never executes the program.
	image := buildMinimalELF(entry, []byte{0, 0, 0, 0})

	cfg := config.DefaultConfig().WithBackend(config.BackendGroth16)
	pk, vkey, vkDigest, err := Setup(image, cfg)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	dir := t.TempDir()
	if err := Save(dir, pk); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loadedPK, loadedVK, loadedDigest, err := Load(dir, image)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loadedDigest != vkDigest {
		t.Fatal("expected the reloaded vk digest to match the one Setup returned")
	}
	if loadedPK.ProgramDigest != pk.ProgramDigest {
		t.Fatal("expected the reloaded proving key's program digest to match")
	}
	if loadedVK.VKDigest != vkey.VKDigest {
		t.Fatal("expected the reloaded verifying key's digest to match")
	}
	if loadedPK.SNARKArtifacts.Backend != config.BackendGroth16 {
		t.Fatalf("expected the reloaded snark artifacts to keep their groth16 backend, got %v", loadedPK.SNARKArtifacts.Backend)
	}
}

func TestLoadRejectsMissingDirectory(t *testing.T) {
	if _, _, _, err := Load(t.TempDir()+"/does-not-exist", nil); err == nil {
		t.Fatal("expected an error loading from a nonexistent directory")
	}
}
