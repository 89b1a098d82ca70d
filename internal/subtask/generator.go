package subtask

import (
	"strings"

	"github.com/phrazzld/metanav/internal/domain"
)

// PlanSize is the number of sub-tasks every plan contains.
const PlanSize = 3

// step is one templated entry of a plan. The %S and %T placeholders are
// replaced with the source and target concept names.
type step struct {
	name        string
	description string
	mastery     domain.MasteryLevel
}

const (
	semantic  = domain.MasterySemanticDerivation
	intuitive = domain.MasteryIntuitiveUnderstanding
)

var (
	childPlan = [PlanSize]step{
		{"理解 %T 的整体框架", "建立对 %T 的宏观认识，了解其在 %S 中的位置和作用", intuitive},
		{"学习 %T 的核心概念", "深入学习 %T 的关键概念、定义和基本原理", semantic},
		{"掌握 %T 的具体应用", "通过实例和练习，掌握 %T 的具体应用方法", semantic},
	}
	parentPlan = [PlanSize]step{
		{"巩固 %S 的基础知识", "确保对 %S 的基础概念有扎实的理解", semantic},
		{"探索 %S 与 %T 的联系", "理解 %S 如何支撑和构成 %T", intuitive},
		{"整合理解 %T", "基于 %S 的理解，形成对 %T 的完整认知", semantic},
	}
	siblingPlan = [PlanSize]step{
		{"对比学习 %S 和 %T", "比较 %S 和 %T 的异同点，理解各自特点", intuitive},
		{"分别掌握 %S 和 %T", "独立深入学习 %S 和 %T 的具体内容", semantic},
		{"综合应用 %S 和 %T", "在实际场景中综合运用 %S 和 %T", semantic},
	}
	relatedPlan = [PlanSize]step{
		{"理解 %S 的核心内容", "深入理解 %S 的主要内容和特点", semantic},
		{"探索 %S 与 %T 的关联", "发现和理解 %S 与 %T 之间的相关性", intuitive},
		{"建立知识网络", "将 %S 和 %T 整合到完整的知识体系中", intuitive},
	}
)

// Generator produces sub-task plans. It is stateless and safe for
// concurrent use.
type Generator interface {
	// Generate returns the three sub-tasks for an edge from source to target.
	// problemContext is accepted for callers that have it; the templates do
	// not currently read it.
	Generate(source, target string, relationship domain.RelationshipType, problemContext string) ([]domain.SubTask, error)

	// GenerateContextual returns a fixed plan for the domain the problem
	// statement falls into.
	GenerateContextual(problemStatement string, path []string) []domain.SubTask
}

type templateGenerator struct{}

// NewGenerator returns the template-based Generator.
func NewGenerator() Generator {
	return templateGenerator{}
}

// Generate implements Generator.
func (templateGenerator) Generate(
	source, target string,
	relationship domain.RelationshipType,
	_ string,
) ([]domain.SubTask, error) {
	var plan [PlanSize]step
	switch relationship {
	case domain.RelationshipChild:
		plan = childPlan
	case domain.RelationshipParent:
		plan = parentPlan
	case domain.RelationshipSibling:
		plan = siblingPlan
	case domain.RelationshipRelated:
		plan = relatedPlan
	default:
		return nil, relationship.Validate()
	}

	fill := strings.NewReplacer("%S", source, "%T", target)
	return build(plan, fill), nil
}

func build(plan [PlanSize]step, fill *strings.Replacer) []domain.SubTask {
	tasks := make([]domain.SubTask, PlanSize)
	for i, s := range plan {
		tasks[i] = domain.SubTask{
			Name:               fill.Replace(s.name),
			Description:        fill.Replace(s.description),
			Order:              i + 1,
			MasteryExpectation: s.mastery,
		}
	}
	return tasks
}
