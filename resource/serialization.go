// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package resource

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/semfind/embed"
)

// Hand-written MUS serializers for the decoded model. The layout is
// vocabulary map followed by the row matrix.
var (
	vectorSer = ord.NewSliceSer[float32](raw.Float32)
	matrixSer = ord.NewSliceSer[[]float32](vectorSer)
	vocabSer  = ord.NewMapSer[string, int](ord.String, varint.Int)
)

// marshalModel serializes a model to bytes.
func marshalModel(model *embed.Model) []byte {
	vocab := model.Vocabulary()
	matrix := model.Matrix()
	buf := make([]byte, vocabSer.Size(vocab)+matrixSer.Size(matrix))
	n := vocabSer.Marshal(vocab, buf)
	matrixSer.Marshal(matrix, buf[n:])
	return buf
}

// unmarshalModel deserializes a model from bytes.
func unmarshalModel(data []byte) (*embed.Model, error) {
	vocab, n, err := vocabSer.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	matrix, _, err := matrixSer.Unmarshal(data[n:])
	if err != nil {
		return nil, err
	}
	return embed.NewModel(vocab, matrix)
}
