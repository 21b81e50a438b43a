package commands

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/spf13/cobra"
)

// Example will be written out to a file, .json and .bin
// Filename should have no path and no extension
type Example struct {
	Filename string
	Obj      interface{}
}

// TestGenCmd writes sample json and binary encodings of various objects,
// for clients to test their encoders against.
func TestGenCmd(examples func() []Example) *cobra.Command {
	return &cobra.Command{
		Use:   "testgen [outdir]",
		Short: "Write encoded example objects",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outdir := "testdata"
			if len(args) > 0 {
				outdir = args[0]
			}
			return WriteExamples(outdir, examples())
		},
	}
}

// WriteExamples writes every example as <filename>.json and <filename>.bin
// in outdir.
func WriteExamples(outdir string, examples []Example) error {
	if err := os.MkdirAll(outdir, 0o755); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	for _, ex := range examples {
		js, err := json.MarshalIndent(ex.Obj, "", "  ")
		if err != nil {
			return errors.Wrapf(errors.ErrInput, "%s: %s", ex.Filename, err)
		}
		if err := os.WriteFile(filepath.Join(outdir, ex.Filename+".json"), js, 0o644); err != nil {
			return errors.Wrap(errors.ErrInput, err.Error())
		}

		bin, err := encode(ex.Obj)
		if err != nil {
			return errors.Wrap(err, ex.Filename)
		}
		if err := os.WriteFile(filepath.Join(outdir, ex.Filename+".bin"), bin, 0o644); err != nil {
			return errors.Wrap(errors.ErrInput, err.Error())
		}
	}
	return nil
}

// encode writes protobuf messages as protobuf and other objects in their
// own binary format, falling back to msgpack.
func encode(obj interface{}) ([]byte, error) {
	switch o := obj.(type) {
	case proto.Message:
		return proto.Marshal(o)
	case interface{ Marshal() ([]byte, error) }:
		return o.Marshal()
	default:
		return swap.MarshalMsgpack(obj)
	}
}
