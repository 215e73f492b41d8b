package cartridge

import (
	"bytes"
	"errors"
	"testing"
)

func buildINES(prgBanks, chrBanks uint8, flags6 uint8, prg, chr []byte) []byte {
	header := []byte{'N', 'E', 'S', 0x1a, prgBanks, chrBanks, flags6, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	buf := append([]byte{}, header...)
	buf = append(buf, prg...)
	buf = append(buf, chr...)
	return buf
}

func TestLoadFromReaderValidNROM(t *testing.T) {
	prg := make([]byte, prgBankSize)
	prg[0] = 0xEA
	chr := make([]byte, chrBankSize)
	raw := buildINES(1, 1, 0, prg, chr)

	cart, err := LoadFromReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cart.PRGSize() != prgBankSize {
		t.Errorf("PRGSize = %d, want %d", cart.PRGSize(), prgBankSize)
	}
	if cart.HasCHRRAM() {
		t.Error("expected CHR-ROM cartridge, got HasCHRRAM true")
	}
	if cart.ReadPRG(0x8000) != 0xEA {
		t.Errorf("ReadPRG(0x8000) = %#x, want 0xEA", cart.ReadPRG(0x8000))
	}
}

func TestLoadFromReaderBadMagic(t *testing.T) {
	raw := []byte("BAD\x1a\x01\x01\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00")
	_, err := LoadFromReader(bytes.NewReader(raw))
	if !errors.Is(err, ErrInvalidHeader) {
		t.Fatalf("err = %v, want ErrInvalidHeader", err)
	}
}

func TestLoadFromReaderTruncated(t *testing.T) {
	header := []byte{'N', 'E', 'S', 0x1a, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	raw := append(header, make([]byte, prgBankSize)...) // declares 2 banks, only 1 present
	_, err := LoadFromReader(bytes.NewReader(raw))
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("err = %v, want ErrTruncated", err)
	}
}

func TestLoadFromReaderZeroCHRIsCHRRAM(t *testing.T) {
	prg := make([]byte, prgBankSize)
	raw := buildINES(1, 0, 0, prg, nil)

	cart, err := LoadFromReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if !cart.HasCHRRAM() {
		t.Error("expected CHR-RAM cartridge")
	}
	cart.WriteCHR(0x10, 0x42)
	if got := cart.ReadCHR(0x10); got != 0x42 {
		t.Errorf("ReadCHR(0x10) = %#x, want 0x42", got)
	}
}

func TestPRGMirroring16KB(t *testing.T) {
	prg := make([]byte, prgBankSize)
	prg[0] = 0x11
	prg[prgBankSize-1] = 0x22
	raw := buildINES(1, 1, 0, prg, make([]byte, chrBankSize))

	cart, err := LoadFromReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if got := cart.ReadPRG(0xC000); got != 0x11 {
		t.Errorf("ReadPRG(0xC000) = %#x, want mirrored 0x11", got)
	}
	if got := cart.ReadPRG(0xFFFF); got != 0x22 {
		t.Errorf("ReadPRG(0xFFFF) = %#x, want mirrored 0x22", got)
	}
}

func TestMirroringBitParsed(t *testing.T) {
	prg := make([]byte, prgBankSize)
	raw := buildINES(1, 1, 0x01, prg, make([]byte, chrBankSize))

	cart, err := LoadFromReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cart.Mirroring() != MirrorVertical {
		t.Errorf("Mirroring() = %v, want MirrorVertical", cart.Mirroring())
	}
}
