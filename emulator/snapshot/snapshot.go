/*
Copyright (c) 2019-2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

// Package snapshot captures and restores machine state. Peripherals opt
// in by implementing peripheral.PeripheralStater; their state is stored
// verbatim, keyed by peripheral name.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/openxemu/xenium/emulator/peripheral"
	"github.com/spf13/afero"
)

const Version = 1

type snapshotFile struct {
	Version     int                        `json:"version"`
	Peripherals map[string]json.RawMessage `json:"peripherals"`
}

func Save(fs afero.Fs, name string, peripherals []peripheral.Peripheral) error {
	file := snapshotFile{
		Version:     Version,
		Peripherals: make(map[string]json.RawMessage),
	}

	for _, d := range peripherals {
		st, ok := d.(peripheral.PeripheralStater)
		if !ok {
			continue
		}

		var buf bytes.Buffer
		if err := st.SaveState(&buf); err != nil {
			return fmt.Errorf("snapshot: saving %s: %v", d.Name(), err)
		}
		file.Peripherals[d.Name()] = json.RawMessage(buf.Bytes())
	}

	data, err := json.MarshalIndent(&file, "", "\t")
	if err != nil {
		return err
	}
	return afero.WriteFile(fs, name, data, 0644)
}

func Restore(fs afero.Fs, name string, peripherals []peripheral.Peripheral) error {
	data, err := afero.ReadFile(fs, name)
	if err != nil {
		return err
	}

	var file snapshotFile
	if err := json.Unmarshal(data, &file); err != nil {
		return err
	}
	if file.Version != Version {
		return fmt.Errorf("snapshot: unsupported version %d", file.Version)
	}

	for _, d := range peripherals {
		st, ok := d.(peripheral.PeripheralStater)
		if !ok {
			continue
		}

		raw, ok := file.Peripherals[d.Name()]
		if !ok {
			return fmt.Errorf("snapshot: no state for %s", d.Name())
		}
		if err := st.LoadState(bytes.NewReader(raw)); err != nil {
			return fmt.Errorf("snapshot: restoring %s: %v", d.Name(), err)
		}
	}
	return nil
}
