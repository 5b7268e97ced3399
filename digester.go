// Copyright 2017 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package pilcom

import (
	"crypto"
	_ "crypto/sha256"

	"github.com/grailbio/base/digest"
)

// Digester is the digester used to compute digests of AST nodes. We
// use a SHA256 digest.
var Digester = digest.Digester(crypto.SHA256)
