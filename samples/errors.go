// SPDX-License-Identifier: EPL-2.0

package samples

import "errors"

var ErrNoFile = errors.New("sample voice names no file")
