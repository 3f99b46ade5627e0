package datasets

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/nihongo-dojo/dojo-go/pkg/errors"
	"github.com/nihongo-dojo/dojo-go/pkg/tasks"
)

const metadataFile = "metadata.json"

// Metadata describes a serialized dataset directory.
type Metadata struct {
	Name                   string         `json:"name"`
	Version                string         `json:"version"`
	TotalTasks             int            `json:"total_tasks"`
	NumChunks              int            `json:"num_chunks"`
	ChunkSize              int            `json:"chunk_size"`
	Gzip                   bool           `json:"gzip"`
	CreatedAt              time.Time      `json:"created_at"`
	TypeDistribution       map[string]int `json:"type_distribution"`
	DifficultyDistribution map[string]int `json:"difficulty_distribution"`
}

// Serializer writes and reads chunked JSONL dataset directories. Large
// datasets split into numbered chunk files so partial reads and streaming
// uploads stay cheap.
type Serializer struct {
	ChunkSize int
	Gzip      bool
}

// NewSerializer returns a serializer with the given chunk size (tasks per
// chunk file). A non-positive size means one chunk per 10000 tasks.
func NewSerializer(chunkSize int, gzipped bool) *Serializer {
	if chunkSize <= 0 {
		chunkSize = 10000
	}
	return &Serializer{ChunkSize: chunkSize, Gzip: gzipped}
}

func (s *Serializer) chunkName(idx int) string {
	name := fmt.Sprintf("data_chunk_%04d.jsonl", idx)
	if s.Gzip {
		name += ".gz"
	}
	return name
}

// Save writes the dataset under dir: numbered chunk files plus
// metadata.json.
func (s *Serializer) Save(d *GRPODataset, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, errors.IOFailed, "create dataset directory")
	}

	numChunks := 0
	for start := 0; start < len(d.Tasks); start += s.ChunkSize {
		end := start + s.ChunkSize
		if end > len(d.Tasks) {
			end = len(d.Tasks)
		}
		if err := s.writeChunk(filepath.Join(dir, s.chunkName(numChunks)), d.Tasks[start:end]); err != nil {
			return err
		}
		numChunks++
	}

	meta := Metadata{
		Name:                   d.Name,
		Version:                d.Version,
		TotalTasks:             d.Len(),
		NumChunks:              numChunks,
		ChunkSize:              s.ChunkSize,
		Gzip:                   s.Gzip,
		CreatedAt:              time.Now().UTC(),
		TypeDistribution:       d.TypeDistribution(),
		DifficultyDistribution: d.DifficultyDistribution(),
	}
	return writeJSON(filepath.Join(dir, metadataFile), meta)
}

func (s *Serializer) writeChunk(path string, ts []*tasks.Task) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.IOFailed, "create chunk file")
	}
	defer f.Close()

	var w io.Writer = f
	var gz *gzip.Writer
	if s.Gzip {
		gz = gzip.NewWriter(f)
		w = gz
	}
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, t := range ts {
		if err := enc.Encode(t); err != nil {
			return errors.Wrap(err, errors.SerializationFailed, "encode task")
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, errors.IOFailed, "flush chunk")
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return errors.Wrap(err, errors.IOFailed, "close gzip stream")
		}
	}
	return nil
}

// Load reads a dataset directory written by Save. The metadata drives chunk
// discovery, so stray files in the directory are ignored.
func Load(dir string) (*GRPODataset, *Metadata, error) {
	var meta Metadata
	if err := readJSON(filepath.Join(dir, metadataFile), &meta); err != nil {
		return nil, nil, err
	}

	s := &Serializer{ChunkSize: meta.ChunkSize, Gzip: meta.Gzip}
	d := NewGRPODataset(meta.Name, meta.Version)
	for i := 0; i < meta.NumChunks; i++ {
		ts, err := readChunk(filepath.Join(dir, s.chunkName(i)), meta.Gzip)
		if err != nil {
			return nil, nil, err
		}
		d.Add(ts...)
	}
	return d, &meta, nil
}

func readChunk(path string, gzipped bool) ([]*tasks.Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.DatasetNotFound, "open chunk file")
	}
	defer f.Close()

	var r io.Reader = f
	if gzipped {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, errors.SerializationFailed, "open gzip stream")
		}
		defer gz.Close()
		r = gz
	}

	var ts []*tasks.Task
	dec := json.NewDecoder(bufio.NewReader(r))
	for dec.More() {
		var t tasks.Task
		if err := dec.Decode(&t); err != nil {
			return nil, errors.Wrap(err, errors.SerializationFailed, "decode task")
		}
		ts = append(ts, &t)
	}
	return ts, nil
}

func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.IOFailed, "create file")
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, errors.SerializationFailed, "encode json")
	}
	return nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, errors.DatasetNotFound, "read file")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(err, errors.SerializationFailed, "decode json")
	}
	return nil
}
