// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package driver_test

import (
	"errors"
	"testing"

	"github.com/Gamewolf3000/steelgear/driver"
)

func TestSentinelErrorsAreDistinct(t *testing.T) {
	sentinels := []error{
		driver.ErrNotInstalled,
		driver.ErrNoDevice,
		driver.ErrNoHostMemory,
		driver.ErrNoDeviceMemory,
		driver.ErrFatal,
	}
	for i := range sentinels {
		for j := range sentinels {
			if i == j {
				continue
			}
			if errors.Is(sentinels[i], sentinels[j]) {
				t.Errorf("sentinel %v must not match sentinel %v", sentinels[i], sentinels[j])
			}
		}
	}
}
