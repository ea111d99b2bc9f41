package cmd

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/dtnma-project/ace-ari/ari"
	"github.com/dtnma-project/ace-ari/cborcodec"
	"github.com/dtnma-project/ace-ari/textcodec"
)

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

func decodeInput(data []byte, inform string, textOpts textcodec.Options, cborOpts cborcodec.Options) (ari.ARI, error) {
	switch inform {
	case "text":
		return textcodec.ParseWithEpoch(string(data), textOpts.Epoch)
	case "cbor":
		return cborcodec.Decode(data, cborOpts)
	case "cborhex":
		return cborcodec.Decode(data, cborOpts)
	}
	return nil, fmt.Errorf("unrecognized --inform %q", inform)
}

func encodeOutput(v ari.ARI, outform string, textOpts textcodec.Options, cborOpts cborcodec.Options) error {
	switch outform {
	case "text":
		s, err := textcodec.Format(v, textOpts)
		if err != nil {
			return err
		}
		fmt.Println(s)
	case "cbor":
		b, err := cborcodec.Encode(v, cborOpts)
		if err != nil {
			return err
		}
		if _, err := os.Stdout.Write(b); err != nil {
			return err
		}
	case "cborhex":
		b, err := cborcodec.Encode(v, cborOpts)
		if err != nil {
			return err
		}
		fmt.Println(hex.EncodeToString(b))
	default:
		return fmt.Errorf("unrecognized --outform %q", outform)
	}
	return nil
}
