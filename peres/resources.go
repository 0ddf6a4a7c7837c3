package peres

import (
	"encoding/binary"
	"io"
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/itchio/pelican"
	"github.com/itchio/pelican/pe"
	"github.com/pkg/errors"
)

type imageResourceDirectory struct {
	Characteristics      uint32
	TimeDateStamp        uint32
	MajorVersion         uint16
	MinorVersion         uint16
	NumberOfNamedEntries uint16
	NumberOfIdEntries    uint16
}

type imageResourceDirectoryEntry struct {
	NameId uint32
	Data   uint32
}

type imageResourceDataEntry struct {
	Data     uint32
	Size     uint32
	CodePage uint32
	Reserved uint32
}

const highBit = 0x80000000

// ResourceTypeString is RT_STRING
const ResourceTypeString = 6

// Key names a resource directory entry: either a string
// or an integer.
type Key struct {
	Name string
	ID   uint32
}

// ParseKey parses "#<n>" as an integer key, and anything else as a name.
func ParseKey(s string) Key {
	if strings.HasPrefix(s, "#") {
		if id, err := strconv.ParseUint(s[1:], 10, 16); err == nil {
			return Key{ID: uint32(id)}
		}
	}
	return Key{Name: s}
}

// IntKey returns an integer key
func IntKey(id uint32) Key {
	return Key{ID: id}
}

func (k Key) IsName() bool {
	return k.Name != ""
}

func (k Key) String() string {
	if k.IsName() {
		return k.Name
	}
	return "#" + strconv.FormatUint(uint64(k.ID), 10)
}

// names are compared case-insensitively, like the resource compiler
// uppercases them.
func (k Key) matches(name string, id uint32, named bool) bool {
	if k.IsName() {
		return named && strings.EqualFold(k.Name, name)
	}
	return !named && k.ID == id
}

type entry struct {
	name   string
	id     uint32
	named  bool
	subdir bool
	offset uint32
}

// resources reads the resource directory tree found in
// the .rsrc section of a PE image.
type resources struct {
	sect *pe.Section
}

func (rs *resources) readDirectory(offset uint32) ([]entry, error) {
	br := io.NewSectionReader(rs.sect, int64(offset), int64(rs.sect.Size)-int64(offset))
	ird := new(imageResourceDirectory)
	err := binary.Read(br, binary.LittleEndian, ird)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var entries []entry
	for i := uint16(0); i < ird.NumberOfNamedEntries+ird.NumberOfIdEntries; i++ {
		irde := new(imageResourceDirectoryEntry)
		err = binary.Read(br, binary.LittleEndian, irde)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		e := entry{
			subdir: irde.Data&highBit > 0,
			offset: irde.Data &^ highBit,
		}
		if irde.NameId&highBit > 0 {
			e.named = true
			e.name, err = rs.readName(irde.NameId &^ highBit)
			if err != nil {
				return nil, err
			}
		} else {
			e.id = irde.NameId & 0xffff
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// readName decodes an IMAGE_RESOURCE_DIR_STRING_U
func (rs *resources) readName(offset uint32) (string, error) {
	br := io.NewSectionReader(rs.sect, int64(offset), int64(rs.sect.Size)-int64(offset))
	var length uint16
	err := binary.Read(br, binary.LittleEndian, &length)
	if err != nil {
		return "", errors.WithStack(err)
	}

	raw := make([]byte, int(length)*2)
	_, err = io.ReadFull(br, raw)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return pelican.DecodeUTF16(raw), nil
}

func (rs *resources) find(entries []entry, key Key) (entry, bool) {
	for _, e := range entries {
		if key.matches(e.name, e.id, e.named) {
			return e, true
		}
	}
	return entry{}, false
}

// Lookup returns the data of resource `typ`/`name`, in the
// language that fits `langs` best. A missing resource is not
// an error: ok is false.
func (rs *resources) Lookup(typ Key, name Key, langs []uint16) (data []byte, ok bool, err error) {
	offset := uint32(0)
	for _, key := range []Key{typ, name} {
		entries, err := rs.readDirectory(offset)
		if err != nil {
			return nil, false, err
		}
		e, found := rs.find(entries, key)
		if !found || !e.subdir {
			return nil, false, nil
		}
		offset = e.offset
	}

	entries, err := rs.readDirectory(offset)
	if err != nil {
		return nil, false, err
	}

	var available []uint16
	var leaves []entry
	for _, e := range entries {
		if e.named || e.subdir {
			continue
		}
		available = append(available, uint16(e.id))
		leaves = append(leaves, e)
	}
	i := PickLanguage(available, langs)
	if i < 0 {
		return nil, false, nil
	}

	data, err = rs.readData(leaves[i].offset)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (rs *resources) readData(offset uint32) ([]byte, error) {
	dbr := io.NewSectionReader(rs.sect, int64(offset), int64(rs.sect.Size)-int64(offset))
	irda := new(imageResourceDataEntry)
	err := binary.Read(dbr, binary.LittleEndian, irda)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if irda.Data < rs.sect.VirtualAddress {
		return nil, errors.Errorf("resource data at %x is outside of the resource section", irda.Data)
	}

	sr := io.NewSectionReader(rs.sect, int64(irda.Data-rs.sect.VirtualAddress), int64(irda.Size))
	rawData, err := ioutil.ReadAll(sr)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if len(rawData) != int(irda.Size) {
		return nil, errors.Errorf("resource data truncated: expected %d bytes, got %d", irda.Size, len(rawData))
	}
	return rawData, nil
}

// String looks up string `id` in the RT_STRING blocks. Strings are
// stored sixteen to a block, each prefixed by its length in UTF-16
// code units. A zero-length entry is a missing string.
func (rs *resources) String(id uint32, langs []uint16) (string, bool, error) {
	block, ok, err := rs.Lookup(IntKey(ResourceTypeString), IntKey(id/16+1), langs)
	if err != nil || !ok {
		return "", false, err
	}

	pos := 0
	for i := uint32(0); i < 16; i++ {
		if pos+2 > len(block) {
			return "", false, errors.Errorf("string block for #%d is truncated", id)
		}
		length := int(binary.LittleEndian.Uint16(block[pos:]))
		pos += 2
		if pos+length*2 > len(block) {
			return "", false, errors.Errorf("string block for #%d is truncated", id)
		}
		if i == id%16 {
			if length == 0 {
				return "", false, nil
			}
			return pelican.DecodeUTF16(block[pos : pos+length*2]), true, nil
		}
		pos += length * 2
	}
	return "", false, nil
}
