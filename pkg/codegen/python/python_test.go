// Copyright 2016-2026, Pulumi Corporation.
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

package python

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var pyNameTests = []struct {
	input    string
	expected string
}{
	{"kubeletConfigKey", "kubelet_config_key"},
	{"podCIDR", "pod_cidr"},
	{"podCidr", "pod_cidr"},
	{"podCIDRs", "pod_cidrs"},
	{"podIPs", "pod_ips"},
	{"nonResourceURLs", "non_resource_urls"},
	{"podCIDRSet", "pod_cidr_set"},
	{"Sha256Hash", "sha256_hash"},
	{"SHA256Hash", "sha256_hash"},
	{"resourceGroupName", "resource_group_name"},
	{"publicIpAddressName", "public_ip_address_name"},
	{"softDeleteRetentionInDays", "soft_delete_retention_in_days"},
	{"lambda", "lambda_"},
	{"max-count", "max_count"},
	{"storageV2", "storage_v2"},
	{"IDs", "ids"},
	{"2ndSubnet", "_2nd_subnet"},
}

func TestPyName(t *testing.T) {
	t.Parallel()

	for _, tt := range pyNameTests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			result := PyName(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}
