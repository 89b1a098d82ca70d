package subtask

import (
	"strings"

	"github.com/phrazzld/metanav/internal/domain"
)

// ProblemDomain is the coarse subject a problem statement belongs to.
type ProblemDomain string

// Problem domains, in classification order.
const (
	DomainProgramming ProblemDomain = "programming"
	DomainMath        ProblemDomain = "math"
	DomainLanguage    ProblemDomain = "language"
	DomainGeneral     ProblemDomain = "general"
)

var domainKeywords = []struct {
	domain   ProblemDomain
	keywords []string
}{
	{DomainProgramming, []string{"编程", "python", "java", "javascript", "代码"}},
	{DomainMath, []string{"数学", "算法", "公式", "计算"}},
	{DomainLanguage, []string{"英语", "语言", "单词", "语法"}},
}

var contextualPlans = map[ProblemDomain][PlanSize]step{
	DomainProgramming: {
		{"环境搭建和基础配置", "设置开发环境，安装必要的工具和库", intuitive},
		{"核心概念理解和语法学习", "学习基础语法和核心编程概念", semantic},
		{"实践项目和代码练习", "通过实际编程项目巩固所学知识", semantic},
	},
	DomainMath: {
		{"基础概念和定义理解", "理解相关的数学概念、定义和基本原理", semantic},
		{"公式推导和证明过程", "掌握重要公式的推导过程和证明方法", semantic},
		{"例题练习和应用实践", "通过典型例题和实际应用巩固理解", semantic},
	},
	DomainLanguage: {
		{"词汇积累和基础语法", "学习核心词汇和基本语法规则", intuitive},
		{"听说读写综合训练", "通过多种方式训练语言技能", semantic},
		{"实际交流和应用练习", "在真实场景中应用所学语言知识", semantic},
	},
	DomainGeneral: {
		{"基础知识学习", "学习相关的基础知识和核心概念", intuitive},
		{"深入理解和分析", "深入分析和理解关键内容", semantic},
		{"实践应用和总结", "通过实践应用巩固学习成果", semantic},
	},
}

// Classify returns the first domain whose keywords occur in the lowercased
// statement, or DomainGeneral.
func Classify(problemStatement string) ProblemDomain {
	lower := strings.ToLower(problemStatement)
	for _, d := range domainKeywords {
		for _, kw := range d.keywords {
			if strings.Contains(lower, kw) {
				return d.domain
			}
		}
	}
	return DomainGeneral
}

// GenerateContextual implements Generator. The selected path does not
// influence the plan; every statement in a domain gets the same three steps.
func (templateGenerator) GenerateContextual(problemStatement string, _ []string) []domain.SubTask {
	return build(contextualPlans[Classify(problemStatement)], strings.NewReplacer())
}
