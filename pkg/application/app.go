// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package application

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/luxfi/launchpad/pkg/config"
	"github.com/luxfi/launchpad/pkg/constants"
	"github.com/luxfi/launchpad/pkg/key"
	luxlog "github.com/luxfi/log"
)

type Launchpad struct {
	Log     luxlog.Logger
	baseDir string
	Conf    *config.Config
}

func New() *Launchpad {
	return &Launchpad{}
}

func (app *Launchpad) Setup(baseDir string, log luxlog.Logger, conf *config.Config) {
	app.baseDir = baseDir
	app.Log = log
	app.Conf = conf
}

func (app *Launchpad) GetBaseDir() string {
	return app.baseDir
}

func (app *Launchpad) GetKeyDir() string {
	return filepath.Join(app.baseDir, constants.KeyDir)
}

func (app *Launchpad) GetLogDir() string {
	return filepath.Join(app.baseDir, constants.LogDir)
}

func (app *Launchpad) GetKeyPath(keyName string) string {
	return key.Path(app.GetKeyDir(), keyName)
}

func (app *Launchpad) KeyExists(keyName string) bool {
	_, err := os.Stat(app.GetKeyPath(keyName))
	return err == nil
}

// CreateKey generates keyName. An existing key is never overwritten.
func (app *Launchpad) CreateKey(keyName string) (*key.SoftKey, error) {
	if app.KeyExists(keyName) {
		return nil, fmt.Errorf("key %q already exists", keyName)
	}
	if err := os.MkdirAll(app.GetKeyDir(), constants.DefaultPerms755); err != nil {
		return nil, err
	}
	k, err := key.NewSoft()
	if err != nil {
		return nil, err
	}
	if err := k.Save(app.GetKeyPath(keyName)); err != nil {
		return nil, err
	}
	return k, nil
}

func (app *Launchpad) GetKey(keyName string) (*key.SoftKey, error) {
	return key.LoadSoft(app.GetKeyPath(keyName))
}

// Operator loads the key that holds the admin and broker roles.
func (app *Launchpad) Operator() (*key.SoftKey, error) {
	k, err := app.GetKey(constants.OperatorKeyName)
	if errors.Is(err, os.ErrNotExist) {
		return nil, constants.ErrNoOperatorKey
	}
	return k, err
}

func (*Launchpad) readFile(path string) ([]byte, error) {
	return os.ReadFile(path) //nolint:gosec // G304: path comes from the launchpad config
}

// writeFile replaces path atomically so a crash never leaves half a snapshot.
func (*Launchpad) writeFile(path string, bytes []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), constants.DefaultPerms755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(bytes); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), constants.WriteReadReadPerms); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
