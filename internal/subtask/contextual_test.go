package subtask

import (
	"testing"

	"github.com/phrazzld/metanav/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		statement string
		want      ProblemDomain
	}{
		{"我想学习Python数据分析", DomainProgramming},
		{"How do JavaScript closures work", DomainProgramming},
		{"理解排序算法的复杂度", DomainMath},
		{"英语语法中的虚拟语气", DomainLanguage},
		{"了解中国古代历史", DomainGeneral},
		{"", DomainGeneral},
		// programming is checked before math
		{"用代码实现数学公式", DomainProgramming},
	}

	for _, tc := range tests {
		t.Run(tc.statement, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.statement))
		})
	}
}

func TestGenerateContextual(t *testing.T) {
	t.Parallel()

	gen := NewGenerator()

	tasks := gen.GenerateContextual("学习高等数学", nil)
	require.Len(t, tasks, PlanSize)
	assert.Equal(t, "基础概念和定义理解", tasks[0].Name)
	assert.Equal(t, []domain.MasteryLevel{
		domain.MasterySemanticDerivation,
		domain.MasterySemanticDerivation,
		domain.MasterySemanticDerivation,
	}, masteryOf(tasks))
	assert.NoError(t, domain.ValidateSubTasks(tasks))

	general := gen.GenerateContextual("了解中国古代历史", nil)
	assert.Equal(t, "基础知识学习", general[0].Name)
	assert.Equal(t, domain.MasteryIntuitiveUnderstanding, general[0].MasteryExpectation)
}

// The selected path is not part of the plan today; two different paths in
// the same domain produce identical plans.
func TestGenerateContextual_IgnoresPath(t *testing.T) {
	t.Parallel()

	gen := NewGenerator()
	a := gen.GenerateContextual("学习Java编程", []string{"面向对象", "继承"})
	b := gen.GenerateContextual("学习Java编程", []string{"并发", "线程池", "锁"})

	assert.Equal(t, a, b)
	assert.Equal(t, "环境搭建和基础配置", a[0].Name)
}
