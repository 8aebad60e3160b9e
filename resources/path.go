/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package resources

import (
	"fmt"
	"path/filepath"
	"strings"
)

// joinUnderBaseDir joins location onto baseDir and rejects any result that
// escapes baseDir via "..".
func joinUnderBaseDir(baseDir, location string) (string, error) {
	full := filepath.Clean(filepath.Join(baseDir, location))
	base := filepath.Clean(baseDir)
	if full != base && !strings.HasPrefix(full, base+string(filepath.Separator)) {
		return "", fmt.Errorf("resource location %q escapes base directory", location)
	}
	return full, nil
}
