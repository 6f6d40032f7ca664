package db

import (
	"bytes"
	"compress/gzip"
	"encoding/gob"
	"fmt"
)

// encodeSamples compresses a sample vector for blob storage. gob carries the
// float64 slice losslessly; gzip keeps slowly-varying scanlines small on
// disk.
func encodeSamples(samples []float64) ([]byte, error) {
	var buf bytes.Buffer
	gzWriter := gzip.NewWriter(&buf)

	if err := gob.NewEncoder(gzWriter).Encode(samples); err != nil {
		gzWriter.Close()
		return nil, fmt.Errorf("failed to encode samples: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize sample blob: %w", err)
	}

	return buf.Bytes(), nil
}

// decodeSamples reverses encodeSamples.
func decodeSamples(blob []byte) ([]float64, error) {
	gzReader, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("failed to open sample blob: %w", err)
	}
	defer gzReader.Close()

	var samples []float64
	if err := gob.NewDecoder(gzReader).Decode(&samples); err != nil {
		return nil, fmt.Errorf("failed to decode samples: %w", err)
	}

	return samples, nil
}
