package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEquipmentTransitions(t *testing.T) {
	assert.True(t, EquipmentOperational.CanTransition(EquipmentUnderMaintenance))
	assert.True(t, EquipmentUnderMaintenance.CanTransition(EquipmentOperational))

	assert.False(t, EquipmentOperational.CanTransition(EquipmentOperational))
	assert.False(t, EquipmentStatus("Broken").CanTransition(EquipmentOperational))
}

func TestMaintenanceTransitions(t *testing.T) {
	assert.True(t, MaintenanceReported.CanTransition(MaintenanceInProgress))
	assert.True(t, MaintenanceInProgress.CanTransition(MaintenanceResolved))

	// No skipping and no going back
	assert.False(t, MaintenanceReported.CanTransition(MaintenanceResolved))
	assert.False(t, MaintenanceInProgress.CanTransition(MaintenanceReported))
	assert.False(t, MaintenanceResolved.CanTransition(MaintenanceInProgress))
}

func TestRepairTransitions(t *testing.T) {
	assert.True(t, RepairWorking.CanTransition(RepairCompleted))

	// Completed is terminal
	assert.False(t, RepairCompleted.CanTransition(RepairWorking))
	assert.False(t, RepairCompleted.CanTransition(RepairCompleted))
}

func TestRoleValid(t *testing.T) {
	for _, role := range []Role{RoleMember, RoleTrainer, RoleAdmin} {
		assert.True(t, role.Valid())
	}
	assert.False(t, Role("owner").Valid())
}

func TestGoalMetricMapping(t *testing.T) {
	assert.Equal(t, MetricWeight, GoalTargetWeight.MetricType())
	assert.Equal(t, MetricBodyFat, GoalTargetBodyFat.MetricType())
	assert.Equal(t, MetricMaxHR, GoalTargetMaxHR.MetricType())
}
