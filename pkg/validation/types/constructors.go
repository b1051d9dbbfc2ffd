package types

import "time"

func Array() *ArrayType {
	return &ArrayType{}
}

func Boolean() *BooleanType {
	return &BooleanType{}
}

// Date varsayılan olarak RFC3339 string'leri parse eder.
func Date() *DateType {
	return &DateType{format: time.RFC3339}
}

func Number() *NumberType {
	return &NumberType{}
}

func Object() *ObjectType {
	return &ObjectType{}
}

func String() *StringType {
	return &StringType{}
}

func Uuid() *UuidType {
	return &UuidType{}
}
