/*
Copyright 2024 The Rook Authors. All rights reserved.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package clusterd

import (
	"net"
	"strconv"
	"time"

	"github.com/tricorder/moosefs-exporter/pkg/util/exec"
)

// Context holds what is needed to run mfscli against one MooseFS master
type Context struct {
	// The implementation of executing a console command
	Executor exec.Executor

	// Path or name of the mfscli binary
	MfscliPath string

	// DNS name or IP of the MooseFS master
	MasterHost string

	// Administrative port of the MooseFS master
	MasterPort int

	// Maximum time a single mfscli invocation may take. Zero waits forever.
	CommandTimeout time.Duration
}

// MasterAddress returns host:port of the MooseFS master
func (c *Context) MasterAddress() string {
	return net.JoinHostPort(c.MasterHost, strconv.Itoa(c.MasterPort))
}
