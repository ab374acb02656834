package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	contentTypeJSON    = "application/json"
	contentTypeMsgPack = "application/x-msgpack"
)

// formatter writes responses as JSON, or as MessagePack when the request
// carries format=msgpack. Both encodings use the json struct tags.
type formatter struct{}

func wantsMsgPack(r *http.Request) bool {
	return r.URL.Query().Get("format") == "msgpack"
}

// errEncode marks a response that could not be encoded. Nothing has been
// written to the client when write returns it.
var errEncode = errors.New("encode response")

// write encodes data before touching w, so an encoding failure leaves the
// response untouched for an error reply.
func (formatter) write(w http.ResponseWriter, r *http.Request, status int, data any) error {
	var (
		buf         bytes.Buffer
		contentType = contentTypeJSON
		err         error
	)

	if wantsMsgPack(r) {
		contentType = contentTypeMsgPack

		enc := msgpack.NewEncoder(&buf)
		enc.SetCustomStructTag("json")
		err = enc.Encode(data)
	} else {
		err = json.NewEncoder(&buf).Encode(data)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", errEncode, err)
	}

	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)

	_, err = w.Write(buf.Bytes())
	return err
}

// decode reads a request body as MessagePack when the content type says so
// and as JSON otherwise.
func (formatter) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if r.Header.Get("Content-Type") == contentTypeMsgPack {
		dec := msgpack.NewDecoder(body)
		dec.SetCustomStructTag("json")
		return dec.Decode(dst)
	}

	return json.NewDecoder(body).Decode(dst)
}
