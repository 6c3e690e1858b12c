// Package option 实现 pppd 的选项解析引擎：选项描述、注册表、处理流水线、
// 优先级仲裁以及生效选项的输出。
//
// # 优先级
//
// 每个选项组（Prio 主选项及其后的 PrioSub 别名）记录最近一次被接受的
// 优先级、来源和胜出的别名。来源优先级从低到高为：
//   - PriorityDefault  编译期默认值
//   - PriorityCfgFile  选项文件
//   - PrioritySecFile  secrets 文件中的选项
//   - PriorityCmdLine  命令行
//
// 特权来源设置 PrivFix 选项时额外加上 PriorityRoot，这样的值无法再被
// 命令行覆盖。
//
// # 处理流程
//
// Engine.Process 依次执行：优先级检查、上下文门禁（InitOnly、Priv、
// Enable、DevEquiv）、按类型写入主目标、次要效果、最后记录胜出者。
// 失败时不会留下部分修改。
//
// # 输出
//
// Engine.Dump 输出所有偏离默认值的选项，格式可再次作为选项文件读入；
// Engine.Catalog 列出全部已注册选项及说明。
package option
