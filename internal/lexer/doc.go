// Package lexer 实现 pppd 选项文件的分词器，以及 dump 输出所用的引号编码器。
//
// # 词法规则
//
// 选项文件由空白分隔的单词组成：
//   - '#' 到行尾为注释（引号内除外）
//   - 单引号或双引号包围的内容作为同一个单词，引号本身不计入
//   - 反斜杠转义：\a \b \f \n \r \s \t，\<换行> 续行，
//     \0-\7 最多三位八进制，\x 最多两位十六进制，其余 \c 即 c
//   - 单词长度上限为 MaxWordLen，超长部分被截断并告警
//
// # 使用示例
//
//	r := lexer.NewReader(f, "/etc/ppp/options")
//	for {
//	    word, _, err := r.ReadWord()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    // ...
//	}
//
// Quote 生成的文本再经 ReadWord 读回，与原始字节串完全一致。
package lexer
