package codec

// baseScalars pre-seeds every Registry with the built-in scalar kinds
// of spec §4.2.1's "Base scalar" list.
var baseScalars = map[ID]Codec{
	idUUID:          UUIDCodec{baseCodec{idUUID}},
	idStr:           StrCodec{baseCodec{idStr}},
	idBytes:         BytesCodec{baseCodec{idBytes}},
	idInt16:         Int16Codec{baseCodec{idInt16}},
	idInt32:         Int32Codec{baseCodec{idInt32}},
	idInt64:         Int64Codec{baseCodec{idInt64}},
	idFloat32:       Float32Codec{baseCodec{idFloat32}},
	idFloat64:       Float64Codec{baseCodec{idFloat64}},
	idDecimal:       DecimalCodec{baseCodec{idDecimal}},
	idBool:          BoolCodec{baseCodec{idBool}},
	idDateTime:      DateTimeCodec{baseCodec{idDateTime}},
	idLocalDateTime: LocalDateTimeCodec{baseCodec{idLocalDateTime}},
	idLocalDate:     LocalDateCodec{baseCodec{idLocalDate}},
	idLocalTime:     LocalTimeCodec{baseCodec{idLocalTime}},
	idDuration:      DurationCodec{baseCodec{idDuration}},
	idJSON:          JSONCodec{baseCodec{idJSON}},
	idBigInt:        BigIntCodec{baseCodec{idBigInt}},
}
