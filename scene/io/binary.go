package io

import (
	"archive/zip"
	"encoding/gob"
	"fmt"
	"os"
	"time"

	"github.com/mwlodarzc/kdray/geom"
	"github.com/mwlodarzc/kdray/kdtree"
	"github.com/mwlodarzc/kdray/log"
)

const (
	primFile  = "primitives.bin"
	indexFile = "flatIndex.bin"
	statsFile = "buildStats.bin"
)

// A compiled scene: the primitive table plus the flat intersection index
// built over it. Both are immutable after compilation; queries only read
// them.
type Index struct {
	Primitives []geom.Primitive
	Flat       kdtree.FlatIndex
	BuildStats kdtree.BuildStats
}

// Write a compiled index to a zip archive.
func WriteIndex(index *Index, path string) error {
	logger := log.New("index writer")
	logger.Noticef(`writing compiled index to "%s"`, path)
	start := time.Now()

	zipFile, err := os.Create(path)
	if err != nil {
		return err
	}
	defer zipFile.Close()

	zw := zip.NewWriter(zipFile)
	defer zw.Close()

	sections := []struct {
		name string
		data interface{}
	}{
		{primFile, index.Primitives},
		{indexFile, index.Flat},
		{statsFile, index.BuildStats},
	}
	for _, section := range sections {
		cw, err := zw.Create(section.name)
		if err != nil {
			return err
		}
		if err = gob.NewEncoder(cw).Encode(section.data); err != nil {
			return fmt.Errorf("writeIndex: %s: %s", section.name, err)
		}
	}

	logger.Noticef("compressed index in %d ms", time.Since(start).Nanoseconds()/1e6)
	return nil
}

// Read a compiled index from a zip archive.
func ReadIndex(path string) (*Index, error) {
	logger := log.New("index reader")
	logger.Noticef(`loading compiled index from "%s"`, path)
	start := time.Now()

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	index := &Index{}
	sections := []struct {
		name string
		data interface{}
	}{
		{primFile, &index.Primitives},
		{indexFile, &index.Flat},
		{statsFile, &index.BuildStats},
	}
	for _, section := range sections {
		sf, err := findSection(&zr.Reader, section.name)
		if err != nil {
			return nil, err
		}
		cr, err := sf.Open()
		if err != nil {
			return nil, err
		}
		err = gob.NewDecoder(cr).Decode(section.data)
		cr.Close()
		if err != nil {
			return nil, fmt.Errorf("readIndex: %s: %s", section.name, err)
		}
	}

	// The traversal assumes the stream is well formed; verify it now so a
	// truncated or tampered archive fails here instead of mid-query.
	if _, err = index.Flat.Stats(); err != nil {
		return nil, fmt.Errorf("readIndex: %s", err)
	}

	logger.Noticef("loaded index in %d ms", time.Since(start).Nanoseconds()/1e6)
	return index, nil
}

func findSection(zr *zip.Reader, name string) (*zip.File, error) {
	for _, f := range zr.File {
		if f.Name == name {
			return f, nil
		}
	}
	return nil, fmt.Errorf("readIndex: archive is missing section %q", name)
}
