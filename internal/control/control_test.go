package control_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"wisefido-node/internal/control"
)

// fakeNode 记录命令界面触发的操作
type fakeNode struct {
	locationPush    *bool
	falls           int
	departmentSlots []int
	periodicStatus  int
}

func (f *fakeNode) SetLocationPush(enabled bool) { f.locationPush = &enabled }
func (f *fakeNode) TriggerFall()                 { f.falls++ }
func (f *fakeNode) TriggerDepartment(slot int)   { f.departmentSlots = append(f.departmentSlots, slot) }
func (f *fakeNode) TriggerPeriodicStatus()       { f.periodicStatus++ }

func TestInterpreter_Execute(t *testing.T) {
	tests := []struct {
		command string
		code    int
	}{
		{"true", control.CodeEnabled},
		{"1", control.CodeEnabled},
		{"on", control.CodeEnabled},
		{"false", control.CodeDisabled},
		{"0", control.CodeDisabled},
		{"off", control.CodeDisabled},
		{"fall", control.CodeFall},
		{"arg1", control.CodeDepartment1},
		{"arg2", control.CodeDepartment2},
		{"info", control.CodeInfo},
		{"bogus", control.CodeInvalid},
		{"", control.CodeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			node := &fakeNode{}
			i := control.NewInterpreter(node, zap.NewNop())
			assert.Equal(t, tt.code, i.Execute(tt.command))
		})
	}
}

func TestInterpreter_CommandNormalization(t *testing.T) {
	node := &fakeNode{}
	i := control.NewInterpreter(node, zap.NewNop())

	// 大小写与首尾空白不敏感
	assert.Equal(t, control.CodeEnabled, i.Execute("  ON  "))
	assert.Equal(t, control.CodeFall, i.Execute("FALL"))
	assert.Equal(t, control.CodeDisabled, i.Execute(" Off"))
}

func TestInterpreter_DispatchesToNode(t *testing.T) {
	node := &fakeNode{}
	i := control.NewInterpreter(node, zap.NewNop())

	i.Execute("on")
	assert.NotNil(t, node.locationPush)
	assert.True(t, *node.locationPush)

	i.Execute("off")
	assert.False(t, *node.locationPush)

	i.Execute("fall")
	assert.Equal(t, 1, node.falls)

	i.Execute("arg1")
	i.Execute("arg2")
	assert.Equal(t, []int{1, 2}, node.departmentSlots)

	i.Execute("info")
	assert.Equal(t, 1, node.periodicStatus)
}

func TestInterpreter_InvalidCommandMutatesNothing(t *testing.T) {
	node := &fakeNode{}
	i := control.NewInterpreter(node, zap.NewNop())

	assert.Equal(t, control.CodeInvalid, i.Execute("reboot"))
	assert.Nil(t, node.locationPush)
	assert.Zero(t, node.falls)
	assert.Empty(t, node.departmentSlots)
	assert.Zero(t, node.periodicStatus)
}
