/*
Copyright © 2016 the CIS authors.
This file is part of CIS.

CIS is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

CIS is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with CIS.  If not, see <http://www.gnu.org/licenses/>.
*/

package cisutil

import (
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/sirupsen/logrus"
)

// maybeDownload checks if the input is an existing file locally. If not,
// it checks if the file is a URL; if it is, it downloads the file and
// returns the path to the downloaded file. Download failures are logged
// and the original path returned, so the subsequent open reports the
// error.
func maybeDownload(path string) string {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return path
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return downloadHTTP(path)
	}
	return path
}

// downloadHTTP downloads a file from the specified URL, retrying with
// exponential backoff, and returns the path to the downloaded file.
func downloadHTTP(path string) string {
	dir, err := ioutil.TempDir("", "cis")
	if err != nil {
		panic(fmt.Errorf("cisutil: failed creating temporary download directory: %v", err))
	}
	local := filepath.Join(dir, filepath.Base(path))
	err = backoff.RetryNotify(
		func() error { return fetch(path, local) },
		backoff.NewExponentialBackOff(),
		func(err error, d time.Duration) {
			logrus.WithField("url", path).Warnf("%v: retrying in %v", err, d)
		},
	)
	if err != nil {
		logrus.WithField("url", path).Error(err)
		return path
	}
	return local
}

func fetch(url, local string) error {
	w, err := os.Create(local)
	if err != nil {
		return fmt.Errorf("cisutil: failed creating file for download: %v", err)
	}
	defer w.Close()
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cisutil: downloading %s: %s", url, resp.Status)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}
