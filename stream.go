package protoskema

// Encoder is the streaming side of Encode: values fed one at a time each
// produce a self-contained frame, and concatenating the outputs equals
// encoding the values individually. The encoder holds no state and is safe
// for concurrent use.
type Encoder struct {
	schema Schema
}

// NewEncoder constructs a streaming encoder for the given schema.
func NewEncoder(s Schema) *Encoder {
	return &Encoder{schema: s}
}

// Feed encodes one value and returns its complete frame.
func (e *Encoder) Feed(v any) ([]byte, error) {
	return encodeValue(e.schema, v)
}

// Decoder is the streaming side of Decode. It accepts byte chunks of
// arbitrary size and emits decoded values as they complete, buffering any
// partial frame in between. A Decoder is a single-owner object: concurrent
// use from multiple goroutines is undefined.
type Decoder struct {
	schema Schema
	buf    []byte
	err    error
}

// NewDecoder constructs a streaming decoder for the given schema.
func NewDecoder(s Schema) *Decoder {
	return &Decoder{schema: s}
}

// Feed appends a chunk to the internal buffer and tries to decode the whole
// buffer as one top-level frame; a successful attempt emits one value and
// empties the buffer, so a call emits at most one value. A truncation suspends decoding until
// more input arrives; any other failure terminates the stream and is
// returned from every subsequent call.
func (d *Decoder) Feed(chunk []byte) ([]any, error) {
	if d.err != nil {
		return nil, d.err
	}
	d.buf = append(d.buf, chunk...)
	var out []any
	for len(d.buf) > 0 {
		v, err := decodeValue(d.schema, d.buf)
		if err != nil {
			if isRetryable(err) {
				log.Debugf("protoskema: partial frame, %d bytes buffered", len(d.buf))
				break
			}
			log.Debugf("protoskema: stream terminated: %v", err)
			d.err = err
			return out, err
		}
		out = append(out, v)
		d.buf = d.buf[:0]
	}
	return out, nil
}

// Finish signals end-of-input. An empty buffer is a clean end of stream; a
// pending partial frame reports the truncation.
func (d *Decoder) Finish() error {
	if d.err != nil {
		return d.err
	}
	if len(d.buf) > 0 {
		return issuef("", CodeTruncated, int64(len(d.buf)), "Unexpected end of chunk")
	}
	return nil
}
