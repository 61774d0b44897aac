/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"fmt"
)

func validateStateTransition(
	oldState State,
	newState State,
) error {
	if newState == StateFailed && oldState != StateDone && oldState != StateFailed {
		return nil
	}

	if oldState == StateRegistryInitialized && newState == StateDeltaQueried {
		return nil // nothing to revoke
	}

	if oldState == StateRevocationApplied &&
		(newState == StateRevocationApplied || newState == StateDeltaQueried) {
		return nil
	}

	if oldState < StateDeltaQueried && newState == oldState+1 {
		return nil
	}

	if oldState == StateDeltaQueried && newState == StateDone {
		return nil
	}

	return fmt.Errorf("unexpected transition from %v to %v", oldState, newState)
}
