package entities

import "testing"

func TestStringListValue(t *testing.T) {
	var nilList StringList
	v, err := nilList.Value()
	if err != nil {
		t.Fatalf("nil 列表序列化失败: %v", err)
	}
	if v != "[]" {
		t.Errorf("nil 列表应写入 %q, 得到 %v", "[]", v)
	}

	list := StringList{"family", "summer"}
	v, err = list.Value()
	if err != nil {
		t.Fatalf("列表序列化失败: %v", err)
	}
	if v != `["family","summer"]` {
		t.Errorf("序列化结果 = %v, 期望 %q", v, `["family","summer"]`)
	}
}

func TestStringListScan(t *testing.T) {
	var list StringList

	if err := list.Scan(nil); err != nil {
		t.Fatalf("扫描 NULL 失败: %v", err)
	}
	if list != nil {
		t.Errorf("NULL 应读出为 nil, 得到 %v", list)
	}

	if err := list.Scan([]byte(`["a","b"]`)); err != nil {
		t.Fatalf("扫描 []byte 失败: %v", err)
	}
	if len(list) != 2 || list[0] != "a" || list[1] != "b" {
		t.Errorf("扫描结果 = %v, 期望 [a b]", list)
	}

	if err := list.Scan(`["c"]`); err != nil {
		t.Fatalf("扫描 string 失败: %v", err)
	}
	if len(list) != 1 || list[0] != "c" {
		t.Errorf("扫描结果 = %v, 期望 [c]", list)
	}

	if err := list.Scan(""); err != nil {
		t.Fatalf("扫描空串失败: %v", err)
	}
	if list != nil {
		t.Errorf("空串应读出为 nil, 得到 %v", list)
	}

	if err := list.Scan(42); err == nil {
		t.Error("扫描不支持的类型应返回错误")
	}
}
