// Copyright 2013 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package glog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVGatesOnThreshold(t *testing.T) {
	SetV(2)
	defer SetV(0)

	assert.True(t, bool(V(0)))
	assert.True(t, bool(V(2)))
	assert.False(t, bool(V(3)))
}

func TestSetVIsLiveAcrossCalls(t *testing.T) {
	SetV(0)
	assert.False(t, bool(V(1)))

	SetV(5)
	assert.True(t, bool(V(1)))
	SetV(0)
}

func TestSetToStderrSuppressesOutput(t *testing.T) {
	SetToStderr(false)
	defer SetToStderr(true)

	// With output disabled, these must not panic and must return promptly;
	// there is no sink to assert against once toStderr is false.
	Verbose(true).Infof("should not reach a writer")
	Warningf("should not reach a writer")
}
