package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sofiacoin/node/business/web/errs"
)

// client is used for all calls to the node. Mining can take a while.
var client = http.Client{
	Timeout: 2 * time.Minute,
}

// get calls the node and decodes the response into v.
func get(path string, v any) error {
	resp, err := client.Get(url + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decode(resp, v)
}

// post sends the body as JSON to the node and decodes the response into v.
func post(path string, body any, v any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	resp, err := client.Post(url+path, "application/json", &buf)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decode(resp, v)
}

// decode reports the node's error message for a failed call.
func decode(resp *http.Response, v any) error {
	if resp.StatusCode >= http.StatusBadRequest {
		var er errs.Response
		if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
			return fmt.Errorf("node returned status %d", resp.StatusCode)
		}

		if len(er.Fields) > 0 {
			return fmt.Errorf("%s: %v", er.Error, er.Fields)
		}
		return errors.New(er.Error)
	}

	if resp.StatusCode == http.StatusNoContent || v == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

// printJSON writes the value to stdout in indented form.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(data))
	return nil
}
