package errors

import "errors"

// ErrOptimisticLock 版本号比对失败：记录在读取后已被并发修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")
