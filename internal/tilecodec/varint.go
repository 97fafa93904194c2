package tilecodec

import (
	"encoding/binary"
	"fmt"
	"io"
)

// writeUvarint writes one unsigned varint.
func writeUvarint(w io.Writer, v uint64) error {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], v)
	_, err := w.Write(buf[:n])
	return err
}

// writeVarint writes one zigzag-encoded signed varint.
func writeVarint(w io.Writer, v int64) error {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutVarint(buf[:], v)
	_, err := w.Write(buf[:n])
	return err
}

// writeVarintSeq writes a uvarint length prefix followed by that many
// zigzag-varint signed int64 values.
func writeVarintSeq(w io.Writer, values []int64) error {
	if err := writeUvarint(w, uint64(len(values))); err != nil {
		return err
	}
	for _, v := range values {
		if err := writeVarint(w, v); err != nil {
			return err
		}
	}
	return nil
}

// writeVarintSeq32 is writeVarintSeq widened for int32 columns (lat/lon
// deltas), keeping the wire representation identical to the int64 case.
func writeVarintSeq32(w io.Writer, values []int32) error {
	if err := writeUvarint(w, uint64(len(values))); err != nil {
		return err
	}
	for _, v := range values {
		if err := writeVarint(w, int64(v)); err != nil {
			return err
		}
	}
	return nil
}

// writeUvarintSeq writes a uvarint length prefix followed by that many
// unsigned varints (used for the flat tag stream, which is never negative).
func writeUvarintSeq(w io.Writer, values []uint64) error {
	if err := writeUvarint(w, uint64(len(values))); err != nil {
		return err
	}
	for _, v := range values {
		if err := writeUvarint(w, v); err != nil {
			return err
		}
	}
	return nil
}

func readVarintSeq(r io.ByteReader) ([]int64, error) {
	count, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	if count == 0 {
		return nil, nil
	}
	out := make([]int64, count)
	for i := range out {
		v, err := binary.ReadVarint(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
		}
		out[i] = v
	}
	return out, nil
}

func readVarintSeq32(r io.ByteReader) ([]int32, error) {
	count, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	if count == 0 {
		return nil, nil
	}
	out := make([]int32, count)
	for i := range out {
		v, err := binary.ReadVarint(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
		}
		if v < -(1<<31) || v > (1<<31)-1 {
			return nil, fmt.Errorf("%w: value %d overflows int32", ErrBadDelta, v)
		}
		out[i] = int32(v)
	}
	return out, nil
}

func readUvarintSeq(r io.ByteReader) ([]uint64, error) {
	count, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	if count == 0 {
		return nil, nil
	}
	out := make([]uint64, count)
	for i := range out {
		v, err := binary.ReadUvarint(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
		}
		out[i] = v
	}
	return out, nil
}
