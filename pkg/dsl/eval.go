package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/shopstream/prodrec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		// 定义变量类型
		cel.Variable("item", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("rctx", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Eval 是候选过滤规则的解释器，使用 CEL (Common Expression Language) 实现。
//
// 表达式语法（CEL 标准语法）：
//   - 基础：label.category == "kitchen" / label.recall_source != "hot"
//   - 数值：item.score > 0.7 / item.id == 3
//   - 逻辑：label.category == "shoes" && item.score > 0.5
//   - 包含：label.recall_source.contains("similar")
//
// 规则返回 true 表示命中（由上层决定命中后是保留还是剔除）。
type Eval struct {
	item *core.Item
	rctx *core.RecommendContext
	env  *cel.Env
}

// NewEval 创建一个新的规则解释器。
func NewEval(item *core.Item, rctx *core.RecommendContext) *Eval {
	env, _ := getCELEnv()
	return &Eval{
		item: item,
		rctx: rctx,
		env:  env,
	}
}

// Evaluate 解析并执行规则表达式，返回布尔结果。
// 表达式编译失败或求值结果不是 bool 时返回 error。
func (e *Eval) Evaluate(expr string) (bool, error) {
	if e.env == nil {
		return false, fmt.Errorf("dsl: cel env not initialized")
	}

	ast, iss := e.env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return false, fmt.Errorf("dsl: compile %q: %w", expr, iss.Err())
	}

	prg, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("dsl: program %q: %w", expr, err)
	}

	out, _, err := prg.Eval(e.activation())
	if err != nil {
		return false, fmt.Errorf("dsl: eval %q: %w", expr, err)
	}

	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("dsl: expression %q did not evaluate to bool", expr)
	}
	return b, nil
}

// activation 构建 CEL 求值的变量绑定。
// label.* 取 Label.Value；item.* 暴露 id/score；rctx.* 暴露用户与种子。
func (e *Eval) activation() map[string]any {
	labels := make(map[string]any)
	if e.item != nil {
		for k, lbl := range e.item.Labels {
			labels[k] = lbl.Value
		}
	}

	item := map[string]any{}
	if e.item != nil {
		item["id"] = e.item.ID
		item["score"] = e.item.Score
	}

	rctx := map[string]any{}
	if e.rctx != nil {
		rctx["user_id"] = e.rctx.UserID
		rctx["seed_product_id"] = e.rctx.SeedProductID
	}

	return map[string]any{
		"item":  item,
		"label": labels,
		"rctx":  rctx,
	}
}
