package peres

import (
	"bytes"
	"encoding/binary"
	"unicode/utf16"
)

// Helpers that synthesize minimal PE images: headers, no optional
// header, a single .rsrc section.

type testResource struct {
	typ  Key
	name Key
	lang uint16
	data []byte
}

const (
	testSectionRVA    = 0x1000
	testSectionOffset = 0x200
)

func putUTF16(buf *bytes.Buffer, s string) {
	for _, u := range utf16.Encode([]rune(s)) {
		binary.Write(buf, binary.LittleEndian, u)
	}
}

// stringBlock lays out the sixteen entries of an RT_STRING block
func stringBlock(strs map[int]string) []byte {
	buf := new(bytes.Buffer)
	for i := 0; i < 16; i++ {
		s := strs[i]
		binary.Write(buf, binary.LittleEndian, uint16(len(utf16.Encode([]rune(s)))))
		putUTF16(buf, s)
	}
	return buf.Bytes()
}

type testNode struct {
	key      Key
	children []*testNode
	res      *testResource
	offset   uint32
}

func (n *testNode) child(key Key) *testNode {
	for _, c := range n.children {
		if c.key == key {
			return c
		}
	}
	c := &testNode{key: key}
	n.children = append(n.children, c)
	return c
}

func buildRsrc(resources []testResource) []byte {
	root := &testNode{}
	for i := range resources {
		r := &resources[i]
		leaf := root.child(r.typ).child(r.name).child(IntKey(uint32(r.lang)))
		leaf.res = r
	}

	// directories, breadth first
	var dirs []*testNode
	var leaves []*testNode
	queue := []*testNode{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n.res != nil {
			leaves = append(leaves, n)
			continue
		}
		dirs = append(dirs, n)
		queue = append(queue, n.children...)
	}

	pos := uint32(0)
	for _, d := range dirs {
		d.offset = pos
		pos += 16 + 8*uint32(len(d.children))
	}
	for _, l := range leaves {
		l.offset = pos
		pos += 16
	}

	nameOffsets := make(map[string]uint32)
	var names []string
	for _, d := range dirs {
		for _, c := range d.children {
			if c.key.IsName() {
				if _, ok := nameOffsets[c.key.Name]; !ok {
					nameOffsets[c.key.Name] = pos
					names = append(names, c.key.Name)
					pos += 2 + 2*uint32(len(utf16.Encode([]rune(c.key.Name))))
				}
			}
		}
	}

	dataOffsets := make(map[*testNode]uint32)
	for _, l := range leaves {
		pos = (pos + 3) &^ 3
		dataOffsets[l] = pos
		pos += uint32(len(l.res.data))
	}

	buf := new(bytes.Buffer)
	for _, d := range dirs {
		var named, ids uint16
		for _, c := range d.children {
			if c.key.IsName() {
				named++
			} else {
				ids++
			}
		}
		binary.Write(buf, binary.LittleEndian, imageResourceDirectory{
			NumberOfNamedEntries: named,
			NumberOfIdEntries:    ids,
		})
		for _, c := range d.children {
			e := imageResourceDirectoryEntry{}
			if c.key.IsName() {
				e.NameId = highBit | nameOffsets[c.key.Name]
			} else {
				e.NameId = c.key.ID
			}
			if c.res != nil {
				e.Data = c.offset
			} else {
				e.Data = highBit | c.offset
			}
			binary.Write(buf, binary.LittleEndian, e)
		}
	}
	for _, l := range leaves {
		binary.Write(buf, binary.LittleEndian, imageResourceDataEntry{
			Data: testSectionRVA + dataOffsets[l],
			Size: uint32(len(l.res.data)),
		})
	}
	for _, name := range names {
		binary.Write(buf, binary.LittleEndian, uint16(len(utf16.Encode([]rune(name)))))
		putUTF16(buf, name)
	}
	for _, l := range leaves {
		for uint32(buf.Len()) < dataOffsets[l] {
			buf.WriteByte(0)
		}
		buf.Write(l.res.data)
	}
	return buf.Bytes()
}

type testFileHeader struct {
	Machine              uint16
	NumberOfSections     uint16
	TimeDateStamp        uint32
	PointerToSymbolTable uint32
	NumberOfSymbols      uint32
	SizeOfOptionalHeader uint16
	Characteristics      uint16
}

type testSectionHeader struct {
	Name                 [8]uint8
	VirtualSize          uint32
	VirtualAddress       uint32
	SizeOfRawData        uint32
	PointerToRawData     uint32
	PointerToRelocations uint32
	PointerToLineNumbers uint32
	NumberOfRelocations  uint16
	NumberOfLineNumbers  uint16
	Characteristics      uint32
}

// buildImage wraps a resource section in PE headers. A nil
// section gives an image without resources.
func buildImage(rsrc []byte) []byte {
	buf := new(bytes.Buffer)

	dos := make([]byte, 0x40)
	dos[0], dos[1] = 'M', 'Z'
	binary.LittleEndian.PutUint32(dos[0x3c:], 0x40)
	buf.Write(dos)
	buf.WriteString("PE\x00\x00")

	numSections := uint16(0)
	if rsrc != nil {
		numSections = 1
	}
	binary.Write(buf, binary.LittleEndian, testFileHeader{
		Machine:          0x14c,
		NumberOfSections: numSections,
		Characteristics:  0x2102,
	})

	if rsrc != nil {
		sh := testSectionHeader{
			VirtualSize:      uint32(len(rsrc)),
			VirtualAddress:   testSectionRVA,
			SizeOfRawData:    uint32(len(rsrc)),
			PointerToRawData: testSectionOffset,
			Characteristics:  0x40000040,
		}
		copy(sh.Name[:], ".rsrc")
		binary.Write(buf, binary.LittleEndian, sh)
	}

	for buf.Len() < testSectionOffset {
		buf.WriteByte(0)
	}
	buf.Write(rsrc)
	return buf.Bytes()
}
